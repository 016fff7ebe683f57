package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/config"
	"github.com/onairhq/onair/internal/live"
	"github.com/onairhq/onair/internal/obs"
	"github.com/onairhq/onair/internal/server"
	"github.com/onairhq/onair/internal/store/postgres"
	redisstore "github.com/onairhq/onair/internal/store/redis"
	"github.com/onairhq/onair/internal/uploads"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("ONAIR_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("ONAIR_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	obs.Init()

	// Apply pending schema migrations before opening the pool.
	if cfg.Database.Migrate {
		if err := postgres.Migrate(cfg.Database.URL()); err != nil {
			return err
		}
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for the live status cache and broadcasts.
	cache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	// Create auth service and seed the initial account.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err := authSvc.EnsureDefaultAdmin(ctx); err != nil {
		return err
	}

	// Activity recorder, live status service, and image store.
	recorder := audit.NewRecorder(store.Audit())
	liveSvc := live.NewService(cache)

	fileStore, err := uploads.NewFileStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, authSvc, recorder, liveSvc, fileStore)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	// Let in-flight activity writes land before exit.
	if drainErr := recorder.Drain(shutdownCtx); drainErr != nil {
		log.Warn().Err(drainErr).Msg("activity log drain timed out")
	}

	log.Info().Msg("stopped")
	return nil
}
