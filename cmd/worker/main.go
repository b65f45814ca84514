package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/complyhub/complyhub/internal/app"
	"github.com/complyhub/complyhub/internal/billing"
	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/catalog"
	"github.com/complyhub/complyhub/internal/platform/db"
	"github.com/complyhub/complyhub/internal/shared"
	"github.com/complyhub/complyhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

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

	store := cache.New(cfg.CacheTTL)
	auditLogger := shared.NewAuditLogger(pool, logger)

	catalogSet := catalog.NewSet(pool, store, auditLogger)
	warmupJob := jobs.NewCatalogWarmupJob(catalogSet, logger, nil)

	paymentsClient := billing.NewPaymentsClient(cfg.PaymentsAPIURL, cfg.PaymentsAPIKey)
	billingService := billing.NewService(pool, paymentsClient, store)
	billingJob := jobs.NewBillingSyncJob(billingService, logger, nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.HandleSendEmailTask},
			{Type: jobs.TaskTypeCatalogWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskTypeBillingSync, Handler: billingJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: jobs.NewCatalogWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 * * * *", Task: jobs.NewBillingSyncTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
