package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/luvora/luvora/internal/app"
	"github.com/luvora/luvora/internal/platform/db"
	"github.com/luvora/luvora/internal/platform/storage"
	"github.com/luvora/luvora/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	photoStore, err := storage.NewPhotoStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
	if err != nil {
		logger.Error("init photo storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := photoStore.Close(); err != nil {
			logger.Warn("photo storage close", slog.Any("error", err))
		}
	}()

	reconciler := jobs.NewReconciler(pool, photoStore, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:  asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:     logger,
		Reconciler: reconciler,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
