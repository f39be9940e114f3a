package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/config"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/handler"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/logging"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/ai"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(os.Stderr, "info", "console")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file, using system environment only")
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	deps := handler.Dependencies{
		Personas: personaStore,
		Logger:   logger,
	}

	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, personaStore, cfg.AI,
			ai.WithLogger(logger.With().Str("component", "ai").Logger()))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize AI service, continuing without it")
		} else {
			deps.Generator = aiService
			deps.Replier = aiService
			logger.Info().Str("model", cfg.AI.Model).Msg("AI service initialized")
		}
	} else {
		logger.Info().Msg("Ark credentials not configured, skipping AI service")
	}

	if deps.Replier == nil {
		deps.Replier = reply.NewClient(cfg.Client.Endpoint, reply.WithTimeout(cfg.Client.Timeout))
		logger.Info().Str("endpoint", cfg.Client.Endpoint).Msg("live sessions use the remote reply service")
	}

	router := handler.NewRouter(deps)

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger zerolog.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("GraceAI backend listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
