package authn

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/system/normalize"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// UserLoader resolves an authenticated email to its user record.
// Lookups return (nil, nil) when no record matches.
type UserLoader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ctxKey struct{}

// CurrentUser returns the authenticated user injected by Middleware,
// and whether one is present.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(ctxKey{}).(*models.User)
	return u, ok
}

// WithTestUser injects a user into the request context directly,
// bypassing token verification. For handler tests.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// Middleware verifies the Authorization bearer token, loads the
// requester's user record, and injects it into the request context.
//
// A missing or invalid token gets 401. A valid token whose email no
// longer matches a user gets 403: the token holder is authenticated
// but has no account here.
func Middleware(v Verifier, users UserLoader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			email, err := v.Verify(token)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetByEmail(r.Context(), normalize.Email(email))
			if err != nil {
				logger.Error("user lookup failed during authentication", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if user == nil {
				writeError(w, http.StatusForbidden, "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
		})
	}
}

// RequireAdmin gates a route group to admin accounts. It assumes
// Middleware already ran.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if u.Type != models.TypeAdmin {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
