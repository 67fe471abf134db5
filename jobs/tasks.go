package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryWarmup reloads the cached company list from the directory.
	TaskDirectoryWarmup = "directory:companies:warmup"
)

// WarmupPayload describes a company cache warmup request.
type WarmupPayload struct {
	// Reason is logged only, e.g. "schedule" or "manual".
	Reason string `json:"reason"`
	// Invalidate drops every cached list before reloading.
	Invalidate bool `json:"invalidate"`
}

// NewDirectoryWarmupTask constructs an Asynq task. Duplicate warmups within a
// minute collapse into one.
func NewDirectoryWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	if payload.Reason == "" {
		payload.Reason = "schedule"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectoryWarmup, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Minute),
	), nil
}
