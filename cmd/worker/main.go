package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/pharmapulse/pharmapulse/internal/analytics"
	"github.com/pharmapulse/pharmapulse/internal/app"
	"github.com/pharmapulse/pharmapulse/internal/platform/db"
	"github.com/pharmapulse/pharmapulse/internal/reports"
	"github.com/pharmapulse/pharmapulse/internal/reports/artifact"
	"github.com/pharmapulse/pharmapulse/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, "worker")

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	generateJob := reports.NewGenerateJob(reports.JobConfig{
		Repo:      reports.NewRepository(pool),
		Extractor: reports.NewExtractor(analytics.NewRepository(pool)),
		Store:     artifact.NewStore(cfg.ReportsDir),
		Logger:    logger,
	})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportGenerate, Handler: generateJob.Handle},
		},
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
