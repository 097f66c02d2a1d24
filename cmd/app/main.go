package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placement-admin/internal/cache"
	"placement-admin/internal/config"
	"placement-admin/internal/creds"
	"placement-admin/internal/httpserver"
	"placement-admin/internal/logging"
	"placement-admin/internal/metrics"
	"placement-admin/internal/repo"
	"placement-admin/internal/session"
	"placement-admin/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting placement-admin", "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	var repository repo.Repository
	if cfg.UseSQLite() {
		repository, err = repo.NewSQLite(ctx, cfg.SQLitePath, logger)
	} else {
		repository, err = repo.NewPostgres(ctx, cfg.DatabaseURL, logger)
	}
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repository.Close()
	logger.Info("database connected", "dialect", repository.Dialect())

	if err := repository.RunMigrations(ctx, migrations.Files); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrated")

	if err := creds.EnsureAdmin(ctx, repository, logger); err != nil {
		return fmt.Errorf("ensure admin account: %w", err)
	}

	sessions := newSessionStore(ctx, cfg, logger)

	httpSrv := httpserver.New(cfg.HTTPListenAddr, logger, metricRegistry, repository, sessions)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	return nil
}

// newSessionStore prefers Redis when configured and reachable so sessions
// survive restarts, and falls back to process memory otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("sessions stored in memory")
		return session.NewMemoryStore()
	}

	redisClient := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		UseTLS:   cfg.RedisTLS,
	}, logger)

	if err := redisClient.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, sessions fall back to memory", "error", err)
		_ = redisClient.Close()
		return session.NewMemoryStore()
	}

	logger.Info("sessions stored in redis", "addr", cfg.RedisAddr)
	return session.NewRedisStore(redisClient)
}
