package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/owner-console/internal/directory"
	jobmetrics "github.com/odyssey-erp/owner-console/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// CompanyCache is the part of directory.CompanyCache the warmup drives.
type CompanyCache interface {
	Refresh(ctx context.Context) ([]directory.Company, error)
	Bump(ctx context.Context) error
}

// CompanyWarmupJob reloads the company candidate list into Redis.
type CompanyWarmupJob struct {
	Cache   CompanyCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewCompanyWarmupJob wires dependencies for the warmup handler.
func NewCompanyWarmupJob(cache CompanyCache, logger *slog.Logger, metrics *jobmetrics.Metrics) *CompanyWarmupJob {
	return &CompanyWarmupJob{Cache: cache, Logger: logger, Metrics: metrics, Timeout: 30 * time.Second}
}

// Handle processes TaskDirectoryWarmup tasks.
func (j *CompanyWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Cache == nil {
		return errors.New("company warmup: handler not configured")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return errors.Join(err, asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskDirectoryWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := time.Now()

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	if payload.Invalidate {
		if err := j.Cache.Bump(ctx); err != nil {
			logger.Error("invalidate company cache", slog.Any("error", err))
			return err
		}
	}
	companies, err := j.Cache.Refresh(ctx)
	if err != nil {
		logger.Error("refresh company cache", slog.Any("error", err))
		if errors.Is(err, directory.ErrUnauthorized) || errors.Is(err, directory.ErrForbidden) {
			return errors.Join(err, asynq.SkipRetry)
		}
		return err
	}
	j.metrics().AddItems(TaskDirectoryWarmup, len(companies))
	logger.Info("company cache warmed", slog.Int("companies", len(companies)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CompanyWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDirectoryWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDirectoryWarmup))
}

func (j *CompanyWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
