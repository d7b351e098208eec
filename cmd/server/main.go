package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"clearn/backend/internal/audit"
	auditrepo "clearn/backend/internal/audit/repository"
	"clearn/backend/internal/catalog"
	cataloghandler "clearn/backend/internal/catalog/handler"
	"clearn/backend/internal/config"
	"clearn/backend/internal/db"
	"clearn/backend/internal/devotp"
	devotphandler "clearn/backend/internal/devotp/handler"
	healthhandler "clearn/backend/internal/health/handler"
	"clearn/backend/internal/logging"
	"clearn/backend/internal/metrics"
	"clearn/backend/internal/notify"
	"clearn/backend/internal/security"
	"clearn/backend/internal/server"
	"clearn/backend/internal/server/middleware"
	"clearn/backend/internal/signup"
	signuphandler "clearn/backend/internal/signup/handler"
	signuprepo "clearn/backend/internal/signup/repository"
	"clearn/backend/internal/telemetry"
	otelsetup "clearn/backend/internal/telemetry/otel"
)

const (
	serviceName       = "clearn"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("info")
		fallback.Fatal().Err(err).Msg("config")
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		if cfg.OTLPEndpoint != "" {
			// let in-flight async emits finish before the exporters close
			time.Sleep(telemetry.ShutdownDrainDuration)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var (
		signupRepo signuprepo.Repository = signuprepo.NewMemory()
		auditRepo  auditrepo.Repository  = auditrepo.NewMemory()
		pinger     healthhandler.Pinger
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		signupRepo = signuprepo.NewPostgresRepository(conn)
		auditRepo = auditrepo.NewPostgresRepository(conn)
		pinger = conn
		logger.Info().Msg("using postgres storage")
	} else {
		logger.Warn().Msg("DATABASE_URL not set; signups are kept in memory and lost on restart")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens, err := security.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL())
	if err != nil {
		return err
	}

	opts := signup.Options{
		DevFallback: cfg.OTPReturnToClient,
		Metrics:     m,
		Emitter:     otelsetup.NewEventEmitter(providers.LoggerProvider),
		Audit:       audit.NewLogger(auditRepo, middleware.GetClientIP, logger),
		Logger:      logger,
	}
	var devHandler server.Registrar
	if cfg.OTPReturnToClient {
		store := devotp.NewMemoryStore()
		opts.DevOTPs = store
		devHandler = devotphandler.New(store)
		logger.Warn().Msg("OTP_RETURN_TO_CLIENT is enabled; codes are returned to clients when email fails")
	}

	svc := signup.NewService(
		signup.NewCredentialStore(signupRepo, hasher),
		hasher,
		notify.NewSMTPSender(cfg.Resolver(), logger),
		tokens,
		opts,
	)

	router := server.NewRouter(server.Deps{
		Signup:   signuphandler.New(svc, tokens, cfg.IsProduction(), logger),
		Catalog:  cataloghandler.New(catalog.NewFileSource(cfg.DataDir, logger), m),
		Health:   healthhandler.New(pinger, logger),
		DevOTP:   devHandler,
		Gatherer: reg,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
