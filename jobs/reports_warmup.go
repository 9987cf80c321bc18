package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/reports"
)

// ReportsWarmupJob rebuilds the cached statements so the first read after a
// posting burst does not pay the aggregation cost.
type ReportsWarmupJob struct {
	service *reports.Service
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// NewReportsWarmupJob constructs the warmup job.
func NewReportsWarmupJob(service *reports.Service, pool *pgxpool.Pool, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{service: service, pool: pool, logger: logger}
}

// Handle processes TaskReportsWarmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if payload.TenantID != 0 && payload.PeriodID != 0 {
		return j.warm(ctx, payload.TenantID, payload.PeriodID)
	}

	rows, err := j.pool.Query(ctx, `SELECT tenant_id, id FROM periods WHERE status='OPEN'`)
	if err != nil {
		return err
	}
	defer rows.Close()
	type target struct{ tenantID, periodID int64 }
	var targets []target
	for rows.Next() {
		var tg target
		if err := rows.Scan(&tg.tenantID, &tg.periodID); err != nil {
			return err
		}
		targets = append(targets, tg)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, tg := range targets {
		if err := j.warm(ctx, tg.tenantID, tg.periodID); err != nil {
			j.logger.Warn("reports warmup",
				slog.Int64("tenant_id", tg.tenantID),
				slog.Int64("period_id", tg.periodID),
				slog.Any("error", err))
		}
	}
	return nil
}

func (j *ReportsWarmupJob) warm(ctx context.Context, tenantID, periodID int64) error {
	if err := j.service.Warm(ctx, tenantID, periodID); err != nil {
		return err
	}
	j.logger.Info("reports warmed",
		slog.Int64("tenant_id", tenantID),
		slog.Int64("period_id", periodID))
	return nil
}
