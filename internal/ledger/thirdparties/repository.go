package thirdparties

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

const thirdPartyColumns = `id, tenant_id, document_type, document_number, name, is_active, created_at, updated_at`

// Repository persists third party rows.
type Repository interface {
	Create(ctx context.Context, tp ThirdParty) (ThirdParty, error)
	GetByID(ctx context.Context, tenantID, id int64) (ThirdParty, error)
	Search(ctx context.Context, tenantID int64, query string, limit int) ([]ThirdParty, error)
	Exists(ctx context.Context, tenantID, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func scanThirdParty(row pgx.Row) (ThirdParty, error) {
	var tp ThirdParty
	err := row.Scan(&tp.ID, &tp.TenantID, &tp.DocumentType, &tp.DocumentNumber,
		&tp.Name, &tp.IsActive, &tp.CreatedAt, &tp.UpdatedAt)
	return tp, err
}

func (r *repository) Create(ctx context.Context, tp ThirdParty) (ThirdParty, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO third_parties (tenant_id, document_type, document_number, name, is_active)
VALUES ($1,$2,$3,$4,TRUE)
RETURNING `+thirdPartyColumns,
		tp.TenantID, tp.DocumentType, tp.DocumentNumber, tp.Name)
	created, err := scanThirdParty(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ThirdParty{}, shared.ErrDuplicateCode
		}
		return ThirdParty{}, fmt.Errorf("thirdparties: insert: %w", err)
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, tenantID, id int64) (ThirdParty, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+thirdPartyColumns+` FROM third_parties WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	tp, err := scanThirdParty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ThirdParty{}, shared.ErrNotFound
		}
		return ThirdParty{}, fmt.Errorf("thirdparties: get: %w", err)
	}
	return tp, nil
}

func (r *repository) Search(ctx context.Context, tenantID int64, query string, limit int) ([]ThirdParty, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+thirdPartyColumns+` FROM third_parties
WHERE tenant_id=$1 AND is_active AND (document_number ILIKE '%'||$2||'%' OR name ILIKE '%'||$2||'%')
ORDER BY name LIMIT $3`, tenantID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("thirdparties: search: %w", err)
	}
	defer rows.Close()
	var out []ThirdParty
	for rows.Next() {
		tp, err := scanThirdParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (r *repository) Exists(ctx context.Context, tenantID, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM third_parties WHERE tenant_id=$1 AND id=$2 AND is_active)`, tenantID, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("thirdparties: exists: %w", err)
	}
	return exists, nil
}
