// Package tenant resolves the tenant/user identity behind an API key.
package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrKeyNotFound indicates an unknown or disabled API key.
var ErrKeyNotFound = errors.New("tenant: api key not found")

// APIKey is a stored credential linking a key id to a tenant and user.
type APIKey struct {
	KeyID      string
	SecretHash string
	TenantID   int64
	TenantName string
	UserID     int64
}

// Repository loads API keys.
type Repository interface {
	FindKey(ctx context.Context, keyID string) (APIKey, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindKey(ctx context.Context, keyID string) (APIKey, error) {
	var key APIKey
	err := r.pool.QueryRow(ctx, `SELECT k.key_id, k.secret_hash, t.id, t.name, k.user_id
FROM api_keys k
JOIN tenants t ON t.id = k.tenant_id
WHERE k.key_id = $1 AND k.is_active AND t.is_active`, keyID).
		Scan(&key.KeyID, &key.SecretHash, &key.TenantID, &key.TenantName, &key.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return APIKey{}, ErrKeyNotFound
		}
		return APIKey{}, err
	}
	return key, nil
}
