package vouchers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

const voucherTypeColumns = `id, tenant_id, code, name, prefix, current_consecutive, is_active, created_at, updated_at`

// Repository persists voucher type rows.
type Repository interface {
	Create(ctx context.Context, vt VoucherType) (VoucherType, error)
	CreateMany(ctx context.Context, types []VoucherType) error
	Update(ctx context.Context, vt VoucherType) (VoucherType, error)
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
	Delete(ctx context.Context, tenantID, id int64) error
	GetByID(ctx context.Context, tenantID, id int64) (VoucherType, error)
	GetByCode(ctx context.Context, tenantID int64, code string) (VoucherType, error)
	List(ctx context.Context, tenantID int64, includeInactive bool) ([]VoucherType, error)
	HasTransactions(ctx context.Context, tenantID int64, code string) (bool, error)
	Count(ctx context.Context, tenantID int64) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanVoucherType(row pgx.Row) (VoucherType, error) {
	var vt VoucherType
	err := row.Scan(&vt.ID, &vt.TenantID, &vt.Code, &vt.Name, &vt.Prefix,
		&vt.CurrentConsecutive, &vt.IsActive, &vt.CreatedAt, &vt.UpdatedAt)
	return vt, err
}

func (r *repository) Create(ctx context.Context, vt VoucherType) (VoucherType, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO voucher_types (tenant_id, code, name, prefix, current_consecutive, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE)
RETURNING `+voucherTypeColumns,
		vt.TenantID, vt.Code, vt.Name, vt.Prefix, vt.CurrentConsecutive)
	created, err := scanVoucherType(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return VoucherType{}, shared.ErrDuplicateCode
		}
		return VoucherType{}, fmt.Errorf("vouchers: insert: %w", err)
	}
	return created, nil
}

func (r *repository) CreateMany(ctx context.Context, types []VoucherType) error {
	batch := &pgx.Batch{}
	for _, vt := range types {
		batch.Queue(`INSERT INTO voucher_types (tenant_id, code, name, prefix, current_consecutive, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE)`,
			vt.TenantID, vt.Code, vt.Name, vt.Prefix, vt.CurrentConsecutive)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range types {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("vouchers: batch insert: %w", err)
		}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, vt VoucherType) (VoucherType, error) {
	row := r.pool.QueryRow(ctx, `UPDATE voucher_types SET name=$3, prefix=$4, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2
RETURNING `+voucherTypeColumns,
		vt.TenantID, vt.ID, vt.Name, vt.Prefix)
	updated, err := scanVoucherType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VoucherType{}, shared.ErrNotFound
		}
		return VoucherType{}, fmt.Errorf("vouchers: update: %w", err)
	}
	return updated, nil
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE voucher_types SET is_active=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`,
		tenantID, id, active)
	if err != nil {
		return fmt.Errorf("vouchers: set active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM voucher_types WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("vouchers: delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int64) (VoucherType, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+voucherTypeColumns+` FROM voucher_types WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	vt, err := scanVoucherType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VoucherType{}, shared.ErrNotFound
		}
		return VoucherType{}, fmt.Errorf("vouchers: get: %w", err)
	}
	return vt, nil
}

func (r *repository) GetByCode(ctx context.Context, tenantID int64, code string) (VoucherType, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+voucherTypeColumns+` FROM voucher_types WHERE tenant_id=$1 AND code=$2`, tenantID, code)
	vt, err := scanVoucherType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VoucherType{}, shared.ErrNotFound
		}
		return VoucherType{}, fmt.Errorf("vouchers: get by code: %w", err)
	}
	return vt, nil
}

func (r *repository) List(ctx context.Context, tenantID int64, includeInactive bool) ([]VoucherType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+voucherTypeColumns+` FROM voucher_types
WHERE tenant_id=$1 AND (is_active OR $2) ORDER BY code`, tenantID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("vouchers: list: %w", err)
	}
	defer rows.Close()
	var types []VoucherType
	for rows.Next() {
		vt, err := scanVoucherType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
	return types, rows.Err()
}

func (r *repository) HasTransactions(ctx context.Context, tenantID int64, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM transactions WHERE tenant_id=$1 AND voucher_type=$2)`, tenantID, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("vouchers: has transactions: %w", err)
	}
	return exists, nil
}

func (r *repository) Count(ctx context.Context, tenantID int64) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM voucher_types WHERE tenant_id=$1`, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("vouchers: count: %w", err)
	}
	return count, nil
}
