package shared

import "context"

// Role enumerates privilege tiers supplied by the identity boundary.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleAnalyst Role = "analyst"
	RoleAdmin   Role = "admin"
)

// Identity carries the authenticated requester through request context.
type Identity struct {
	UserID   int64
	FullName string
	Role     Role
}

// IsAdmin reports whether the identity holds the elevated privilege flag.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAnalyze reports whether the identity may query analytics endpoints.
func (i Identity) CanAnalyze() bool {
	return i.Role == RoleAnalyst || i.Role == RoleAdmin
}

type identityContextKey struct{}

// ContextWithIdentity stores the requester identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the requester identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
