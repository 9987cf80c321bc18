package tenant

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Middleware authenticates requests with `Authorization: Bearer <keyID>.<secret>`
// and stores the resolved Identity in the request context.
func Middleware(repo Repository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyID, secret, ok := parseBearer(r.Header.Get("Authorization"))
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or malformed api key")
				return
			}
			key, err := repo.FindKey(r.Context(), keyID)
			if err != nil {
				if err != ErrKeyNotFound {
					logger.Error("lookup api key", slog.Any("error", err))
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid api key")
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)) != nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid api key")
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), &shared.Identity{
				TenantID:   key.TenantID,
				UserID:     key.UserID,
				TenantName: key.TenantName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(header string) (keyID, secret string, ok bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	keyID, secret, found := strings.Cut(token, ".")
	if !found || keyID == "" || secret == "" {
		return "", "", false
	}
	return keyID, secret, true
}
