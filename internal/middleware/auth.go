package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/todozero/todozero-go/internal/model"
	"github.com/todozero/todozero-go/internal/token"
)

type contextKey string

const principalKey contextKey = "principal"

// UserLookup resolves a token subject to a live user record. Implemented by
// repository.UserRepository.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// BearerAuth returns middleware that resolves a principal from the
// Authorization header. The token must validate and its subject must still
// exist in storage; a user deleted after issuance is rejected even though
// their token is cryptographically sound. Every failure collapses to the same
// 401 response so the client cannot tell which stage rejected it.
func BearerAuth(tokens *token.Service, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The bearer scheme is case-insensitive per RFC 6750.
			scheme, raw, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				unauthenticated(w)
				return
			}

			subject, err := tokens.Validate(raw, time.Now())
			if err != nil {
				slog.Debug("bearer token rejected", "reason", err)
				unauthenticated(w)
				return
			}

			user, err := users.GetByUsername(r.Context(), subject)
			if err != nil {
				slog.Debug("bearer subject not resolvable", "error", err)
				unauthenticated(w)
				return
			}

			principal := model.Principal{ID: user.ID, Username: user.Username}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated principal from the request
// context.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "could not validate credentials"})
}
