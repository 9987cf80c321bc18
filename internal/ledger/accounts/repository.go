package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

const accountColumns = `id, tenant_id, code, name, level, nature, account_type, parent_code,
is_auxiliary, allows_movement, is_template, requires_cost_center, applies_withholding,
applies_taxes, closing_account_id, is_active, created_at, updated_at`

// Repository persists chart of accounts rows.
type Repository interface {
	Create(ctx context.Context, a Account) (Account, error)
	CreateMany(ctx context.Context, accs []Account) error
	Update(ctx context.Context, a Account) (Account, error)
	SetActive(ctx context.Context, tenantID, id int64, active bool) error
	Delete(ctx context.Context, tenantID, id int64) error
	GetByID(ctx context.Context, tenantID, id int64) (Account, error)
	GetByCode(ctx context.Context, tenantID int64, code string) (Account, error)
	List(ctx context.Context, tenantID int64) ([]Account, error)
	Search(ctx context.Context, tenantID int64, query string, limit int) ([]Account, error)
	ChildrenOf(ctx context.Context, tenantID int64, parentCode *string) ([]TreeNode, error)
	HasMovements(ctx context.Context, tenantID, accountID int64) (bool, error)
	Count(ctx context.Context, tenantID int64) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.TenantID, &a.Code, &a.Name, &a.Level, &a.Nature, &a.Type,
		&a.ParentCode, &a.IsAuxiliary, &a.AllowsMovement, &a.IsTemplate, &a.RequiresCostCenter,
		&a.AppliesWithholding, &a.AppliesTaxes, &a.ClosingAccountID, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) Create(ctx context.Context, a Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO accounts (tenant_id, code, name, level, nature, account_type, parent_code,
is_auxiliary, allows_movement, is_template, requires_cost_center, applies_withholding, applies_taxes, closing_account_id, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,TRUE)
RETURNING `+accountColumns,
		a.TenantID, a.Code, a.Name, a.Level, a.Nature, a.Type, a.ParentCode,
		a.IsAuxiliary, a.AllowsMovement, a.IsTemplate, a.RequiresCostCenter,
		a.AppliesWithholding, a.AppliesTaxes, a.ClosingAccountID)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, shared.ErrDuplicateCode
		}
		return Account{}, fmt.Errorf("accounts: insert: %w", err)
	}
	return created, nil
}

func (r *repository) CreateMany(ctx context.Context, accs []Account) error {
	batch := &pgx.Batch{}
	for _, a := range accs {
		batch.Queue(`INSERT INTO accounts (tenant_id, code, name, level, nature, account_type, parent_code,
is_auxiliary, allows_movement, is_template, requires_cost_center, applies_withholding, applies_taxes, closing_account_id, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,TRUE)`,
			a.TenantID, a.Code, a.Name, a.Level, a.Nature, a.Type, a.ParentCode,
			a.IsAuxiliary, a.AllowsMovement, a.IsTemplate, a.RequiresCostCenter,
			a.AppliesWithholding, a.AppliesTaxes, a.ClosingAccountID)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range accs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("accounts: batch insert: %w", err)
		}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, a Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `UPDATE accounts SET name=$3, nature=$4, account_type=$5, parent_code=$6,
is_template=$7, requires_cost_center=$8, applies_withholding=$9, applies_taxes=$10, closing_account_id=$11, updated_at=NOW()
WHERE tenant_id=$1 AND id=$2
RETURNING `+accountColumns,
		a.TenantID, a.ID, a.Name, a.Nature, a.Type, a.ParentCode,
		a.IsTemplate, a.RequiresCostCenter, a.AppliesWithholding, a.AppliesTaxes, a.ClosingAccountID)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: update: %w", err)
	}
	return updated, nil
}

func (r *repository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE accounts SET is_active=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`,
		tenantID, id, active)
	if err != nil {
		return fmt.Errorf("accounts: set active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, tenantID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("accounts: delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int64) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: get: %w", err)
	}
	return a, nil
}

func (r *repository) GetByCode(ctx context.Context, tenantID int64, code string) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id=$1 AND code=$2`, tenantID, code)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrNotFound
		}
		return Account{}, fmt.Errorf("accounts: get by code: %w", err)
	}
	return a, nil
}

func (r *repository) List(ctx context.Context, tenantID int64) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE tenant_id=$1 AND is_active ORDER BY level, code`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *repository) Search(ctx context.Context, tenantID int64, query string, limit int) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts
WHERE tenant_id=$1 AND is_active AND (code ILIKE '%'||$2||'%' OR name ILIKE '%'||$2||'%')
ORDER BY code LIMIT $3`, tenantID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("accounts: search: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *repository) ChildrenOf(ctx context.Context, tenantID int64, parentCode *string) ([]TreeNode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+`,
EXISTS (SELECT 1 FROM accounts c WHERE c.tenant_id=accounts.tenant_id AND c.parent_code=accounts.code AND c.is_active)
FROM accounts
WHERE tenant_id=$1 AND is_active AND parent_code IS NOT DISTINCT FROM $2
ORDER BY code`, tenantID, parentCode)
	if err != nil {
		return nil, fmt.Errorf("accounts: children: %w", err)
	}
	defer rows.Close()
	var nodes []TreeNode
	for rows.Next() {
		var n TreeNode
		err := rows.Scan(&n.ID, &n.TenantID, &n.Code, &n.Name, &n.Level, &n.Nature, &n.Type,
			&n.ParentCode, &n.IsAuxiliary, &n.AllowsMovement, &n.IsTemplate, &n.RequiresCostCenter,
			&n.AppliesWithholding, &n.AppliesTaxes, &n.ClosingAccountID, &n.IsActive,
			&n.CreatedAt, &n.UpdatedAt, &n.HasChildren)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (r *repository) HasMovements(ctx context.Context, tenantID, accountID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM transaction_details d
JOIN transactions t ON t.id = d.transaction_id
WHERE t.tenant_id=$1 AND d.account_id=$2)`, tenantID, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("accounts: has movements: %w", err)
	}
	return exists, nil
}

func (r *repository) Count(ctx context.Context, tenantID int64) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE tenant_id=$1`, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("accounts: count: %w", err)
	}
	return count, nil
}

func collectAccounts(rows pgx.Rows) ([]Account, error) {
	var accs []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accs = append(accs, a)
	}
	return accs, rows.Err()
}
