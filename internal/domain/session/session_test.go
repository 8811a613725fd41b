package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockBackend struct {
	token      string
	identity   *Identity
	loginErr   error
	profile    *Identity
	profileErr error
}

func (m *mockBackend) Login(_ context.Context, _, _ string) (string, *Identity, error) {
	if m.loginErr != nil {
		return "", nil, m.loginErr
	}
	return m.token, m.identity, nil
}

func (m *mockBackend) Profile(_ context.Context) (*Identity, error) {
	return m.profile, m.profileErr
}

// --- Helpers ---

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// --- Tests ---

func TestHolder_Login(t *testing.T) {
	backend := &mockBackend{
		token:    "tok-1",
		identity: &Identity{UserID: "u1", Name: "Abebe", Role: "customer"},
	}
	h := New(backend, openTestCache(t))

	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))

	assert.Equal(t, "tok-1", h.Token())
	id, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "Abebe", id.Name)
	assert.False(t, h.IsAdmin())
}

func TestHolder_LoginRejectsEmptyCredentials(t *testing.T) {
	h := New(&mockBackend{}, nil)

	require.Error(t, h.Login(context.Background(), "  ", "secret"))
	require.Error(t, h.Login(context.Background(), "abebe@example.com", ""))
	assert.Empty(t, h.Token())
}

func TestHolder_LoginFailureKeepsExistingSession(t *testing.T) {
	backend := &mockBackend{token: "tok-1", identity: &Identity{UserID: "u1"}}
	h := New(backend, nil)
	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))

	backend.loginErr = errors.New("bad credentials")
	err := h.Login(context.Background(), "abebe@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "tok-1", h.Token())
}

func TestHolder_RestoreRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	backend := &mockBackend{
		token:    "tok-1",
		identity: &Identity{UserID: "u1", Name: "Abebe", Role: "admin"},
		profile:  &Identity{UserID: "u1", Name: "Abebe T.", Role: "admin"},
	}
	first := New(backend, cache)
	require.NoError(t, first.Login(context.Background(), "abebe@example.com", "secret"))

	// A fresh holder over the same cache picks the session back up and
	// refreshes the profile from the backend.
	second := New(backend, cache)
	require.NoError(t, second.Restore(context.Background()))

	assert.Equal(t, "tok-1", second.Token())
	id, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, "Abebe T.", id.Name)
	assert.True(t, second.IsAdmin())
}

func TestHolder_RestoreWithoutCachedSession(t *testing.T) {
	h := New(&mockBackend{}, openTestCache(t))

	require.ErrorIs(t, h.Restore(context.Background()), ErrNotAuthenticated)
}

func TestHolder_RestoreClearsCacheOnStaleToken(t *testing.T) {
	cache := openTestCache(t)
	backend := &mockBackend{token: "tok-1", identity: &Identity{UserID: "u1"}}
	first := New(backend, cache)
	require.NoError(t, first.Login(context.Background(), "abebe@example.com", "secret"))

	backend.profileErr = errors.New("401 unauthorized")
	second := New(backend, cache)
	err := second.Restore(context.Background())

	require.Error(t, err)
	assert.Empty(t, second.Token())
	_, ok := second.Current()
	assert.False(t, ok)

	token, id, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, id)
}

func TestHolder_Logout(t *testing.T) {
	cache := openTestCache(t)
	backend := &mockBackend{token: "tok-1", identity: &Identity{UserID: "u1"}}
	h := New(backend, cache)
	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))

	require.NoError(t, h.Logout())

	assert.Empty(t, h.Token())
	token, _, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestHolder_TokenExpired(t *testing.T) {
	backend := &mockBackend{identity: &Identity{UserID: "u1"}}
	h := New(backend, nil)
	now := time.Now()

	// Signed out means expired.
	assert.True(t, h.TokenExpired(now))

	backend.token = signedToken(t, now.Add(time.Hour))
	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))
	assert.False(t, h.TokenExpired(now))

	backend.token = signedToken(t, now.Add(-time.Hour))
	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))
	assert.True(t, h.TokenExpired(now))

	// Opaque tokens carry no claims and are assumed live.
	backend.token = "not-a-jwt"
	require.NoError(t, h.Login(context.Background(), "abebe@example.com", "secret"))
	assert.False(t, h.TokenExpired(now))
}
