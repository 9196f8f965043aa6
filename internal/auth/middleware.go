// backend/internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"

	"quiz-portal/internal/apperror"
	"quiz-portal/internal/httpx"
)

type contextKey int

const identityKey contextKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// SessionMiddleware validates the session cookie pair once and writes the rotated
// token back before the wrapped handler runs.
func SessionMiddleware(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, versionID := ReadSessionCookies(r)

			id, err := v.Validate(r.Context(), sessionID, versionID)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}

			SetSessionCookies(w, id.SessionID, id.SessionVersionID, id.AccountName)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin must run after SessionMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			httpx.WriteError(w, r, apperror.Unauthorized("Session ID not found"))
			return
		}
		if !id.IsAdmin() {
			httpx.WriteError(w, r, apperror.Forbidden("Admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
