// Package main is the entry point for the centrebooks background worker.
// It purges expired refresh tokens and reports pool usage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"centrebooks/internal/app"
	"centrebooks/internal/config"
	"centrebooks/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Service:     "centrebooks-worker",
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting centrebooks worker")

	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalw("worker requires the postgres storage driver", "storage", cfg.Storage.Driver)
	}
	storage, err := app.PostgresStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()

	worker := NewWorker(storage, cfg.Worker, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker runs the periodic maintenance jobs.
type Worker struct {
	storage *app.Storage
	cfg     config.WorkerConfig
	log     *logger.Logger
}

func NewWorker(storage *app.Storage, cfg config.WorkerConfig, log *logger.Logger) *Worker {
	return &Worker{
		storage: storage,
		cfg:     cfg,
		log:     log.WithComponent("worker"),
	}
}

// Run executes every job once, then on each tick until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	interval := w.cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	w.cleanupTokens(ctx)
	w.storage.Pool.LogStats(ctx)
}

func (w *Worker) cleanupTokens(ctx context.Context) {
	removed, err := w.storage.TokenCleaner.CleanupExpiredTokens(ctx, w.cfg.TokenRetention)
	if err != nil {
		w.log.Errorw("failed to clean up refresh tokens", "error", err)
		return
	}
	if removed > 0 {
		w.log.Infow("cleaned up refresh tokens", "count", removed)
	}
}
