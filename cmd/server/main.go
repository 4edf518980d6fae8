// Package main is the entry point for the centrebooks API server.
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

	"centrebooks/internal/app"
	"centrebooks/internal/config"
	v1 "centrebooks/internal/infrastructure/http/v1"
	"centrebooks/internal/infrastructure/http/v1/middleware"
	"centrebooks/internal/observability/metrics"
	"centrebooks/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Service:     "centrebooks-server",
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting centrebooks server", "version", version, "storage", cfg.Storage.Driver)

	// --- Storage ---
	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	m := metrics.New()
	if storage.Pool != nil {
		m.RegisterPool(storage.Pool)
	}

	// --- Services ---
	services := app.NewServices(storage, cfg)
	if err := services.BootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		log.Fatalw("failed to bootstrap administrator", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Services:     services,
		DB:           storage.DB,
		Driver:       storage.Driver,
		Version:      version,
		Metrics:      m,
		CORSOrigins:  cfg.CORS.AllowedOrigins,
		LoginLimiter: middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
