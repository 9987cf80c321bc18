package periods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

const periodColumns = `id, tenant_id, year, month, status, opening_date, closing_date, created_at, updated_at`

// Repository persists accounting periods.
type Repository interface {
	Create(ctx context.Context, p Period) (Period, error)
	GetByID(ctx context.Context, tenantID, id int64) (Period, error)
	List(ctx context.Context, tenantID int64) ([]Period, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status Status, closingDate *time.Time) (Period, error)
	Delete(ctx context.Context, tenantID, id int64) error
	HasTransactions(ctx context.Context, tenantID, id int64) (bool, error)
	FindByDate(ctx context.Context, tenantID int64, date time.Time) (Period, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.TenantID, &p.Year, &p.Month, &p.Status,
		&p.OpeningDate, &p.ClosingDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) Create(ctx context.Context, p Period) (Period, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO periods (tenant_id, year, month, status, opening_date)
VALUES ($1,$2,$3,$4,$5) RETURNING `+periodColumns,
		p.TenantID, p.Year, p.Month, p.Status, p.OpeningDate)
	created, err := scanPeriod(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Period{}, shared.ErrDuplicatePeriod
		}
		return Period{}, fmt.Errorf("periods: insert: %w", err)
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int64) (Period, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	p, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrNotFound
		}
		return Period{}, fmt.Errorf("periods: get: %w", err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, tenantID int64) ([]Period, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+periodColumns+` FROM periods
WHERE tenant_id=$1 ORDER BY year DESC, month DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("periods: list: %w", err)
	}
	defer rows.Close()
	var out []Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status, closingDate *time.Time) (Period, error) {
	row := r.pool.QueryRow(ctx, `UPDATE periods SET status=$3, closing_date=COALESCE($4, closing_date), updated_at=NOW()
WHERE tenant_id=$1 AND id=$2 RETURNING `+periodColumns,
		tenantID, id, status, closingDate)
	p, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrNotFound
		}
		return Period{}, fmt.Errorf("periods: update status: %w", err)
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM periods WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("periods: delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) HasTransactions(ctx context.Context, tenantID, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE tenant_id=$1 AND period_id=$2)`,
		tenantID, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("periods: has transactions: %w", err)
	}
	return exists, nil
}

// FindByDate returns the single period covering the date's calendar month.
func (r *repository) FindByDate(ctx context.Context, tenantID int64, date time.Time) (Period, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods
WHERE tenant_id=$1 AND year=$2 AND month=$3`, tenantID, date.Year(), int(date.Month()))
	p, err := scanPeriod(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrNoOpenPeriod
		}
		return Period{}, fmt.Errorf("periods: find by date: %w", err)
	}
	return p, nil
}
