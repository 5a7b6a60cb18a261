package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/enigma/internal/auth"
	"github.com/go-chi/chi/v5"
)

type claimsKey struct{}

// WithAuth requires a bearer token on every /sessions route. Tokens scoped to
// sessions only reach those sessions.
func WithAuth(tokens *auth.Manager) Option {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// requireToken rejects requests without a valid bearer token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.writeError(w, r, "Authenticate", fmt.Errorf("%w: missing bearer token", auth.ErrInvalidToken))
			return
		}
		claims, err := s.tokens.Verify(parts[1])
		if err != nil {
			s.writeError(w, r, "Authenticate", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// requireSession rejects tokens that do not grant the {id} session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey{}).(*auth.Claims)
		if id := chi.URLParam(r, "id"); claims != nil && !claims.Allows(id) {
			s.writeError(w, r, "Authorize", fmt.Errorf("%w: %s", auth.ErrForbidden, id))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedSessions narrows names to what the request's token grants.
func allowedSessions(ctx context.Context, names []string) []string {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	if claims == nil || len(claims.Sessions) == 0 {
		return names
	}
	out := names[:0:0]
	for _, n := range names {
		if claims.Allows(n) {
			out = append(out, n)
		}
	}
	return out
}
