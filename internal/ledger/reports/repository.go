package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
)

// AccountActivity is the per-account debit/credit aggregate for one period.
// It is the single read model every report builder consumes.
type AccountActivity struct {
	AccountID int64
	Code      string
	Name      string
	Nature    accounts.Nature
	Type      accounts.Type
	Level     int
	Debit     float64
	Credit    float64
}

// Repository reads aggregated ledger activity.
type Repository interface {
	ActivityByPeriod(ctx context.Context, tenantID, periodID int64) ([]AccountActivity, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ActivityByPeriod aggregates posted detail lines grouped by account in one
// round trip. Draft and void transactions never contribute.
func (r *repository) ActivityByPeriod(ctx context.Context, tenantID, periodID int64) ([]AccountActivity, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, a.code, a.name, a.nature, a.account_type, a.level,
COALESCE(SUM(d.debit), 0), COALESCE(SUM(d.credit), 0)
FROM transaction_details d
JOIN transactions t ON t.id = d.transaction_id
JOIN accounts a ON a.id = d.account_id
WHERE t.tenant_id=$1 AND t.period_id=$2 AND t.status='POSTED'
GROUP BY a.id, a.code, a.name, a.nature, a.account_type, a.level
ORDER BY a.code`, tenantID, periodID)
	if err != nil {
		return nil, fmt.Errorf("reports: activity: %w", err)
	}
	defer rows.Close()
	var activity []AccountActivity
	for rows.Next() {
		var a AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.Nature, &a.Type, &a.Level,
			&a.Debit, &a.Credit); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
