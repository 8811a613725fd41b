// Package discount validates user-entered discount codes against the
// backend. Validity is never computed locally: the backend is the only
// authority on what a code is worth.
package discount

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrCodeRequired is the local validation error for empty input. No network
// call is made and any active discount is left as is.
var ErrCodeRequired = errors.New("discount code required")

// Validation is a successful remote validation of a code.
type Validation struct {
	Code       string
	Percentage decimal.Decimal
	ExpiresAt  *time.Time
}

// Backend defines the remote validation call.
type Backend interface {
	ValidateDiscount(ctx context.Context, code string) (*Validation, error)
}

// Resolver holds the single active discount for the session. The percentage
// is always the one from the last successful validation: a failed
// re-validation resets it to zero even when a prior valid code was active.
type Resolver struct {
	backend Backend

	mu     sync.RWMutex
	active *Validation
}

// NewResolver creates a Resolver with no active discount.
func NewResolver(backend Backend) *Resolver {
	return &Resolver{backend: backend}
}

// Apply validates code remotely and stores the result as the active
// discount. Empty input is rejected locally. Any remote failure zeroes the
// active discount and returns the backend's message verbatim.
func (r *Resolver) Apply(ctx context.Context, code string) (*Validation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	v, err := r.backend.ValidateDiscount(ctx, code)
	if err != nil {
		r.Reset()
		return nil, err
	}

	r.mu.Lock()
	r.active = v
	r.mu.Unlock()
	return v, nil
}

// Percentage returns the active discount percentage, zero when none is set.
func (r *Resolver) Percentage() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return decimal.Zero
	}
	return r.active.Percentage
}

// Active returns the active validation, if any.
func (r *Resolver) Active() (*Validation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return nil, false
	}
	v := *r.active
	return &v, true
}

// Reset drops the active discount.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()
}
