package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Simplici0/councilroi/internal/config"
	"github.com/Simplici0/councilroi/internal/db"
	"github.com/Simplici0/councilroi/internal/logger"
	"github.com/Simplici0/councilroi/internal/metrics"
	"github.com/Simplici0/councilroi/internal/migrations"
	"github.com/Simplici0/councilroi/internal/ratelimit"
	"github.com/Simplici0/councilroi/internal/roi"
	"github.com/Simplici0/councilroi/internal/seed"
	"github.com/Simplici0/councilroi/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	rateLimitWindow = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return err
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	assembler := roi.NewAssembler(roi.NewEngine(catalog))
	scenarios := store.New(database)

	if cfg.IsDev() {
		stats, err := seed.Run(ctx, scenarios, assembler, cfg.Projection())
		if err != nil {
			return fmt.Errorf("seed demo scenarios: %w", err)
		}
		log.Info("seeded demo scenarios", zap.Int("inserts", stats.Inserts), zap.Int("skipped", stats.Skipped))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	srv := &server{
		log:       log,
		assembler: assembler,
		store:     scenarios,
		metrics:   metrics.New(reg),
		defaults:  cfg.Projection(),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(srv, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.SetKeepAlivesEnabled(false)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newLimiter picks the Redis limiter when REDIS_ADDR is set and the in-process one
// otherwise. A zero limit disables rate limiting.
func newLimiter(ctx context.Context, cfg config.Config, log *zap.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimitPerMinute == 0 {
		log.Info("rate limiting disabled")
		return nil, func() {}, nil
	}

	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR is not set, using per-process rate limiting")
		m := ratelimit.NewMemory(cfg.RateLimitPerMinute, rateLimitWindow)
		return m, m.Stop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return ratelimit.NewRedis(client, cfg.RateLimitPerMinute, rateLimitWindow), func() { _ = client.Close() }, nil
}
