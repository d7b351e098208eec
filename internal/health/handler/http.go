// Package handler serves the liveness/readiness probe.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"clearn/backend/internal/platform/httpjson"
)

const pingTimeout = 2 * time.Second

// Pinger reports database reachability. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler answers GET /healthz.
type Handler struct {
	db     Pinger
	logger *zerolog.Logger
}

// New returns a health handler. If db is nil the probe skips the database ping.
func New(db Pinger, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{db: db, logger: logger}
}

// Register mounts GET /healthz.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("health: database ping failed")
			httpjson.Fail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]bool{"ok": true})
}
