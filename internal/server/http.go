// Package server assembles the HTTP router from the domain handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"clearn/backend/internal/platform/httpjson"
	"clearn/backend/internal/server/middleware"
)

// Registrar mounts a handler's routes. Every domain handler implements it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps holds the handlers and shared infrastructure for the router.
type Deps struct {
	// Signup serves /signup/*, /login, /logout and /me.
	Signup Registrar
	// Catalog serves /search-index and /api/topics.
	Catalog Registrar
	// Health serves /healthz.
	Health Registrar
	// DevOTP serves /dev/signup/otp. If nil the route is not registered. Set only when the dev
	// OTP fallback is enabled and not production.
	DevOTP Registrar
	// Gatherer backs /metrics. If nil, /metrics is not registered.
	Gatherer prometheus.Gatherer
	Logger   *zerolog.Logger
}

// NewRouter returns the application handler wrapped with request ID, client IP, request logging,
// panic recovery and OpenTelemetry instrumentation.
//
// Route → handler mapping:
//   - /signup/*, /login, /logout, /me → internal/signup/handler
//   - /search-index, /api/topics       → internal/catalog/handler
//   - /healthz                         → internal/health/handler
//   - /dev/signup/otp                  → internal/devotp/handler
//   - /metrics                         → promhttp
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.ClientIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	for _, h := range []Registrar{deps.Signup, deps.Catalog, deps.Health, deps.DevOTP} {
		if h != nil {
			h.Register(r)
		}
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpjson.Fail(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpjson.Fail(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return otelhttp.NewHandler(r, "clearn",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
