package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/complyhub/complyhub/internal/catalog"
	jobmetrics "github.com/complyhub/complyhub/internal/jobs"
	"github.com/complyhub/complyhub/internal/listing"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// CatalogWarmupJob pre-fills the first-page default list result for every
// catalogue entity, so the first reader after a deploy or invalidation does
// not pay the cold read.
type CatalogWarmupJob struct {
	Catalog catalog.Set
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(set catalog.Set, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{Catalog: set, Logger: logger, Metrics: metrics}
}

// Handle processes catalogue warmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("catalog warmup: handler not configured")
	}

	tracker := j.metrics().Track(TaskTypeCatalogWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	start := time.Now()
	warmed := 0
	for _, svc := range j.Catalog.All() {
		warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_, err := svc.List(warmCtx, listing.Query{})
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm catalogue entity", slog.String("entity", svc.Entity()), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed catalogue warmup", slog.Int("entities", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeCatalogWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeCatalogWarmup))
}

func (j *CatalogWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
