package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/complyhub/complyhub/internal/jobs"
)

// SubscriptionSyncer reconciles subscription state with the payments
// provider.
type SubscriptionSyncer interface {
	SyncSubscriptions(ctx context.Context) (int, error)
}

// BillingSyncJob periodically pulls subscription statuses from the payments
// provider and writes them back onto the user rows.
type BillingSyncJob struct {
	Billing SubscriptionSyncer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewBillingSyncJob wires dependencies for the sync handler.
func NewBillingSyncJob(billing SubscriptionSyncer, logger *slog.Logger, metrics *jobmetrics.Metrics) *BillingSyncJob {
	return &BillingSyncJob{Billing: billing, Logger: logger, Metrics: metrics}
}

// Handle processes subscription-sync tasks.
func (j *BillingSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Billing == nil {
		return errors.New("billing sync: handler not configured")
	}

	tracker := j.metrics().Track(TaskTypeBillingSync)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	updated, err := j.Billing.SyncSubscriptions(ctx)
	if err != nil {
		resultErr = err
		j.logger().Error("sync subscriptions", slog.Any("error", err))
		return resultErr
	}
	j.logger().Info("synced subscriptions", slog.Int("updated", updated))
	return resultErr
}

func (j *BillingSyncJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeBillingSync))
	}
	return slog.Default().With(slog.String("job", TaskTypeBillingSync))
}

func (j *BillingSyncJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
