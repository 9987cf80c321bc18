package shared

import "context"

// Identity carries the tenant/user pair resolved by the API-key middleware.
// Every ledger operation is scoped to it; cross-tenant access is never valid.
type Identity struct {
	TenantID   int64
	UserID     int64
	TenantName string
}

type identityContextKey struct{}

// ContextWithIdentity stores the resolved identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}
