package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type mockUserRepo struct {
	users map[string]*User
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newTestService(t *testing.T, users ...*User) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &mockUserRepo{users: make(map[string]*User)}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	svc := NewService(repo, NewTokenStore(client, time.Hour))
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func testUser(t *testing.T, email, password string, role shared.Role, active bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:           1,
		Email:        email,
		FullName:     "Dana Reyes",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	user := testUser(t, "dana@example.com", "correct horse", shared.RoleAnalyst, true)
	svc, cleanup := newTestService(t, user)
	defer cleanup()
	ctx := context.Background()

	token, identity, err := svc.Login(ctx, "dana@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, shared.RoleAnalyst, identity.Role)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
}

func TestLoginFailures(t *testing.T) {
	active := testUser(t, "dana@example.com", "correct horse", shared.RoleAnalyst, true)
	disabled := testUser(t, "gone@example.com", "correct horse", shared.RoleViewer, false)
	svc, cleanup := newTestService(t, active, disabled)
	defer cleanup()
	ctx := context.Background()

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "correct horse"},
		{"wrong password", "dana@example.com", "battery staple"},
		{"disabled account", "gone@example.com", "correct horse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	user := testUser(t, "dana@example.com", "correct horse", shared.RoleAnalyst, true)
	svc, cleanup := newTestService(t, user)
	defer cleanup()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "dana@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	// Revoking twice is fine.
	assert.NoError(t, svc.Logout(ctx, token))
}

func TestResolveUnknownToken(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRequireUserMiddleware(t *testing.T) {
	user := testUser(t, "dana@example.com", "correct horse", shared.RoleAnalyst, true)
	svc, cleanup := newTestService(t, user)
	defer cleanup()

	token, _, err := svc.Login(context.Background(), "dana@example.com", "correct horse")
	require.NoError(t, err)

	mw := NewMiddleware(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var seen shared.Identity
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(1), seen.UserID)

	// Missing and malformed headers are rejected before hitting Redis.
	for _, header := range []string{"", "Bearer", "Token abc", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRoleMiddleware(t *testing.T) {
	mw := NewMiddleware(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	serve := func(h http.Handler, identity *shared.Identity) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if identity != nil {
			req = req.WithContext(shared.ContextWithIdentity(req.Context(), *identity))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	viewer := shared.Identity{UserID: 2, Role: shared.RoleViewer}
	analyst := shared.Identity{UserID: 3, Role: shared.RoleAnalyst}
	admin := shared.Identity{UserID: 4, Role: shared.RoleAdmin}

	assert.Equal(t, http.StatusUnauthorized, serve(mw.RequireAnalyst(ok), nil))
	assert.Equal(t, http.StatusForbidden, serve(mw.RequireAnalyst(ok), &viewer))
	assert.Equal(t, http.StatusNoContent, serve(mw.RequireAnalyst(ok), &analyst))
	assert.Equal(t, http.StatusNoContent, serve(mw.RequireAnalyst(ok), &admin))

	assert.Equal(t, http.StatusForbidden, serve(mw.RequireAdmin(ok), &analyst))
	assert.Equal(t, http.StatusNoContent, serve(mw.RequireAdmin(ok), &admin))
}
