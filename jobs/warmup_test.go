package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/owner-console/internal/directory"
	jobmetrics "github.com/odyssey-erp/owner-console/internal/jobs"
)

type cacheStub struct {
	companies  []directory.Company
	refreshErr error
	bumpErr    error
	refreshes  int
	bumps      int
}

func (c *cacheStub) Refresh(ctx context.Context) ([]directory.Company, error) {
	c.refreshes++
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}
	return c.companies, nil
}

func (c *cacheStub) Bump(ctx context.Context) error {
	c.bumps++
	return c.bumpErr
}

func newWarmupJob(cache *cacheStub) *CompanyWarmupJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCompanyWarmupJob(cache, logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))
}

func warmupTask(t *testing.T, payload WarmupPayload) *asynq.Task {
	t.Helper()
	task, err := NewDirectoryWarmupTask(payload)
	require.NoError(t, err)
	return task
}

func TestWarmupRefreshesCache(t *testing.T) {
	cache := &cacheStub{companies: []directory.Company{{ID: 1, Code: "ODT", Name: "Odyssey Trading"}}}
	job := newWarmupJob(cache)

	require.NoError(t, job.Handle(context.Background(), warmupTask(t, WarmupPayload{})))
	assert.Equal(t, 1, cache.refreshes)
	assert.Zero(t, cache.bumps)
}

func TestWarmupInvalidatesFirst(t *testing.T) {
	cache := &cacheStub{}
	job := newWarmupJob(cache)

	require.NoError(t, job.Handle(context.Background(), warmupTask(t, WarmupPayload{Reason: "manual", Invalidate: true})))
	assert.Equal(t, 1, cache.bumps)
	assert.Equal(t, 1, cache.refreshes)
}

func TestWarmupBumpFailureStops(t *testing.T) {
	boom := errors.New("redis down")
	cache := &cacheStub{bumpErr: boom}
	job := newWarmupJob(cache)

	err := job.Handle(context.Background(), warmupTask(t, WarmupPayload{Invalidate: true}))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.refreshes)
}

func TestWarmupRetriesTransientFailures(t *testing.T) {
	cache := &cacheStub{refreshErr: &directory.APIError{Status: http.StatusBadGateway}}
	job := newWarmupJob(cache)

	err := job.Handle(context.Background(), warmupTask(t, WarmupPayload{}))
	assert.ErrorIs(t, err, directory.ErrUnavailable)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestWarmupSkipsRetryWhenDenied(t *testing.T) {
	cache := &cacheStub{refreshErr: &directory.APIError{Status: http.StatusUnauthorized}}
	job := newWarmupJob(cache)

	err := job.Handle(context.Background(), warmupTask(t, WarmupPayload{}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.ErrorIs(t, err, directory.ErrUnauthorized)
}

func TestWarmupRejectsBadPayload(t *testing.T) {
	job := newWarmupJob(&cacheStub{})

	err := job.Handle(context.Background(), asynq.NewTask(TaskDirectoryWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWarmupWithoutCache(t *testing.T) {
	var job *CompanyWarmupJob
	assert.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskDirectoryWarmup, nil)))
}

func TestNewDirectoryWarmupTaskDefaultsReason(t *testing.T) {
	task := warmupTask(t, WarmupPayload{})
	assert.Equal(t, TaskDirectoryWarmup, task.Type())
	assert.JSONEq(t, `{"reason":"schedule","invalidate":false}`, string(task.Payload()))
}
