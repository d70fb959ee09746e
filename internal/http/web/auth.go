package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

var ErrForbidden = errors.New("admin access required")

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (scope.Scope, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// granted scope in the request context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				Error(w, auth.ErrInvalidToken)
				return
			}

			sc, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(scope.NewContext(r.Context(), sc)))
		})
	}
}

// RequireAdmin only lets admin scopes through. It must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Scope(r).IsAdmin() {
			Error(w, ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Scope returns the scope stored by Authenticate. Requests that somehow
// bypassed it get an agent scope with no members rather than admin access.
func Scope(r *http.Request) scope.Scope {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		return scope.Agent(uuid.Nil)
	}

	return sc
}
