package posting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	"github.com/balanza-erp/balanza/internal/ledger/periods"
	"github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/platform/db"
)

const transactionColumns = `id, tenant_id, voucher_type, voucher_number, description, date,
total_debit, total_credit, status, period_id, third_party_id, created_by, created_at, updated_at`

// ListFilter narrows transaction listings.
type ListFilter struct {
	VoucherType string
	Status      Status
	Page        int
	PerPage     int
}

// Repository persists journal transactions. Mutations run inside WithTx so
// the period lock, the sequencer and the inserts commit or roll back as one.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
	List(ctx context.Context, tenantID int64, filter ListFilter) ([]Transaction, int, error)
	GetWithDetails(ctx context.Context, tenantID, id int64) (Transaction, []TransactionDetail, error)
}

// TxRepository is the transactional slice of the posting engine.
type TxRepository interface {
	GetAccountsByIDs(ctx context.Context, tenantID int64, ids []int64) ([]accounts.Account, error)
	FindOpenPeriodForUpdate(ctx context.Context, tenantID int64, date time.Time) (periods.Period, error)
	NextVoucherNumber(ctx context.Context, tenantID int64, code string) (prefix string, consecutive int64, err error)
	InsertTransaction(ctx context.Context, t Transaction) (Transaction, error)
	InsertDetails(ctx context.Context, transactionID int64, details []TransactionDetail) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.TenantID, &t.VoucherType, &t.VoucherNumber, &t.Description, &t.Date,
		&t.TotalDebit, &t.TotalCredit, &t.Status, &t.PeriodID, &t.ThirdPartyID,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *repository) List(ctx context.Context, tenantID int64, filter ListFilter) ([]Transaction, int, error) {
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.PerPage

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions
WHERE tenant_id=$1 AND ($2='' OR voucher_type=$2) AND ($3='' OR status=$3)`,
		tenantID, filter.VoucherType, string(filter.Status)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("posting: count: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
WHERE tenant_id=$1 AND ($2='' OR voucher_type=$2) AND ($3='' OR status=$3)
ORDER BY date DESC, id DESC LIMIT $4 OFFSET $5`,
		tenantID, filter.VoucherType, string(filter.Status), filter.PerPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("posting: list: %w", err)
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repository) GetWithDetails(ctx context.Context, tenantID, id int64) (Transaction, []TransactionDetail, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, nil, shared.ErrNotFound
		}
		return Transaction{}, nil, fmt.Errorf("posting: get: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, transaction_id, account_id, description, debit, credit, third_party_id, cost_center_id
FROM transaction_details WHERE transaction_id=$1 ORDER BY id`, id)
	if err != nil {
		return Transaction{}, nil, fmt.Errorf("posting: details: %w", err)
	}
	defer rows.Close()
	var details []TransactionDetail
	for rows.Next() {
		var d TransactionDetail
		if err := rows.Scan(&d.ID, &d.TransactionID, &d.AccountID, &d.Description,
			&d.Debit, &d.Credit, &d.ThirdPartyID, &d.CostCenterID); err != nil {
			return Transaction{}, nil, err
		}
		details = append(details, d)
	}
	return t, details, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetAccountsByIDs(ctx context.Context, tenantID int64, ids []int64) ([]accounts.Account, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, tenant_id, code, name, level, nature, account_type, parent_code,
is_auxiliary, allows_movement, is_template, requires_cost_center, applies_withholding,
applies_taxes, closing_account_id, is_active, created_at, updated_at
FROM accounts WHERE tenant_id=$1 AND id = ANY($2)`, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("posting: accounts by ids: %w", err)
	}
	defer rows.Close()
	var accs []accounts.Account
	for rows.Next() {
		var a accounts.Account
		err := rows.Scan(&a.ID, &a.TenantID, &a.Code, &a.Name, &a.Level, &a.Nature, &a.Type,
			&a.ParentCode, &a.IsAuxiliary, &a.AllowsMovement, &a.IsTemplate, &a.RequiresCostCenter,
			&a.AppliesWithholding, &a.AppliesTaxes, &a.ClosingAccountID, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		accs = append(accs, a)
	}
	return accs, rows.Err()
}

// FindOpenPeriodForUpdate locks the period row covering the date. Holding
// the lock until commit serializes concurrent postings into one period.
func (r *txRepository) FindOpenPeriodForUpdate(ctx context.Context, tenantID int64, date time.Time) (periods.Period, error) {
	var p periods.Period
	err := r.tx.QueryRow(ctx, `SELECT id, tenant_id, year, month, status, opening_date, closing_date, created_at, updated_at
FROM periods WHERE tenant_id=$1 AND year=$2 AND month=$3 FOR UPDATE`,
		tenantID, date.Year(), int(date.Month())).Scan(
		&p.ID, &p.TenantID, &p.Year, &p.Month, &p.Status, &p.OpeningDate, &p.ClosingDate,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periods.Period{}, shared.ErrNoOpenPeriod
		}
		return periods.Period{}, fmt.Errorf("posting: lock period: %w", err)
	}
	return p, nil
}

// NextVoucherNumber advances the series counter atomically and returns the
// prefix and the consecutive it landed on. A missing or inactive series
// yields zero rows, never a read-modify-write race.
func (r *txRepository) NextVoucherNumber(ctx context.Context, tenantID int64, code string) (string, int64, error) {
	var prefix string
	var consecutive int64
	err := r.tx.QueryRow(ctx, `UPDATE voucher_types
SET current_consecutive = current_consecutive + 1, updated_at = NOW()
WHERE tenant_id=$1 AND code=$2 AND is_active
RETURNING prefix, current_consecutive`, tenantID, code).Scan(&prefix, &consecutive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, shared.ErrVoucherTypeUnavailable
		}
		return "", 0, fmt.Errorf("posting: next voucher number: %w", err)
	}
	return prefix, consecutive, nil
}

func (r *txRepository) InsertTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO transactions (tenant_id, voucher_type, voucher_number, description, date,
total_debit, total_credit, status, period_id, third_party_id, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING `+transactionColumns,
		t.TenantID, t.VoucherType, t.VoucherNumber, t.Description, t.Date,
		t.TotalDebit, t.TotalCredit, t.Status, t.PeriodID, t.ThirdPartyID, t.CreatedBy)
	created, err := scanTransaction(row)
	if err != nil {
		return Transaction{}, fmt.Errorf("posting: insert transaction: %w", err)
	}
	return created, nil
}

func (r *txRepository) InsertDetails(ctx context.Context, transactionID int64, details []TransactionDetail) error {
	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(`INSERT INTO transaction_details (transaction_id, account_id, description, debit, credit, third_party_id, cost_center_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			transactionID, d.AccountID, d.Description, d.Debit, d.Credit, d.ThirdPartyID, d.CostCenterID)
	}
	results := r.tx.SendBatch(ctx, batch)
	defer results.Close()
	for range details {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("posting: insert details: %w", err)
		}
	}
	return nil
}
