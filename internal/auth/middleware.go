package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pharmapulse/pharmapulse/internal/platform/httpx"
	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// Middleware authenticates requests via bearer tokens.
type Middleware struct {
	svc    *Service
	logger *slog.Logger
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(svc *Service, logger *slog.Logger) *Middleware {
	return &Middleware{svc: svc, logger: logger}
}

// RequireUser rejects unauthenticated requests and stores the resolved
// identity in the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.RespondError(w, r, shared.ErrUnauthorized)
			return
		}
		identity, err := m.svc.Resolve(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, r, shared.ErrUnauthorized)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAnalyst allows only analysts and admins through.
func (m *Middleware) RequireAnalyst(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, r, shared.ErrUnauthorized)
			return
		}
		if !identity.CanAnalyze() {
			httpx.RespondError(w, r, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only admins through.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, r, shared.ErrUnauthorized)
			return
		}
		if !identity.IsAdmin() {
			httpx.RespondError(w, r, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
