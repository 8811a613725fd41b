// Package session holds the authenticated identity for the storefront and
// provides the bearer token to every other component. The identity and token
// survive restarts through a small file-backed cache, mirroring what the
// browser build keeps in durable key-value storage.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAuthenticated is returned when an operation requires a signed-in
// identity and none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// RoleAdmin marks identities allowed to use the admin console.
const RoleAdmin = "admin"

// Identity is the signed-in user's profile as reported by the backend.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Backend defines the authentication calls the holder needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (token string, id *Identity, err error)
	Profile(ctx context.Context) (*Identity, error)
}

// Holder owns the current identity and bearer token. It satisfies the token
// source contract of the HTTP transport chain, so authenticated calls pick
// the token up automatically.
type Holder struct {
	backend Backend
	cache   *Cache

	mu       sync.RWMutex
	token    string
	identity *Identity
}

// New creates a Holder. cache may be nil, in which case nothing is persisted.
func New(backend Backend, cache *Cache) *Holder {
	return &Holder{backend: backend, cache: cache}
}

// Login authenticates against the backend and persists the resulting token
// and profile. On failure the previous session, if any, is left untouched.
func (h *Holder) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	token, id, err := h.backend.Login(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "login")
	}

	h.mu.Lock()
	h.token = token
	h.identity = id
	h.mu.Unlock()

	if h.cache != nil {
		if err := h.cache.Save(token, id); err != nil {
			return errors.Wrap(err, "persist session")
		}
	}
	return nil
}

// Restore loads a cached token and re-fetches the profile to confirm the
// session is still valid. A profile-fetch failure clears the cache, matching
// the stale-token handling of the original client.
func (h *Holder) Restore(ctx context.Context) error {
	if h.cache == nil {
		return ErrNotAuthenticated
	}
	token, cached, err := h.cache.Load()
	if err != nil {
		return errors.Wrap(err, "load cached session")
	}
	if token == "" {
		return ErrNotAuthenticated
	}

	h.mu.Lock()
	h.token = token
	h.identity = cached
	h.mu.Unlock()

	id, err := h.backend.Profile(ctx)
	if err != nil {
		h.clear()
		return errors.Wrap(err, "refresh profile")
	}

	h.mu.Lock()
	h.identity = id
	h.mu.Unlock()
	if err := h.cache.Save(token, id); err != nil {
		return errors.Wrap(err, "persist session")
	}
	return nil
}

// Logout drops the in-memory session and clears the cache.
func (h *Holder) Logout() error {
	h.clear()
	return nil
}

func (h *Holder) clear() {
	h.mu.Lock()
	h.token = ""
	h.identity = nil
	h.mu.Unlock()
	if h.cache != nil {
		_ = h.cache.Clear()
	}
}

// Token returns the current bearer token, or "" when signed out.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Current returns the signed-in identity, if any.
func (h *Holder) Current() (*Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.identity == nil {
		return nil, false
	}
	id := *h.identity
	return &id, true
}

// IsAdmin reports whether the current identity may use the admin console.
func (h *Holder) IsAdmin() bool {
	id, ok := h.Current()
	return ok && id.Role == RoleAdmin
}

// TokenExpired inspects the bearer token's claims without verifying the
// signature (the backend is the verifier) and reports whether the token
// carries an expiry in the past. Tokens without claims are assumed live.
func (h *Holder) TokenExpired(now time.Time) bool {
	token := h.Token()
	if token == "" {
		return true
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
