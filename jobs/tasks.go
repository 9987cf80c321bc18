package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup prebuilds report caches for open periods.
	TaskReportsWarmup = "reports:warmup"
	// TaskIdempotencyCleanup prunes consumed idempotency keys.
	TaskIdempotencyCleanup = "ledger:idempotency_cleanup"
)

// ReportsWarmupPayload selects what to warm. Zero values mean every open
// period of every tenant.
type ReportsWarmupPayload struct {
	TenantID int64 `json:"tenantId,omitempty"`
	PeriodID int64 `json:"periodId,omitempty"`
}

// NewReportsWarmupTask constructs the warmup task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}

// IdempotencyCleanupPayload sets the retention window in hours.
type IdempotencyCleanupPayload struct {
	RetentionHours int `json:"retentionHours"`
}

// NewIdempotencyCleanupTask constructs the cleanup task.
func NewIdempotencyCleanupTask(retentionHours int) (*asynq.Task, error) {
	data, err := json.Marshal(IdempotencyCleanupPayload{RetentionHours: retentionHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}
