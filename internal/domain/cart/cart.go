// Package cart owns the current session's cart lines. Every mutation follows
// the same two-step contract: issue the backend mutation, await it, then
// perform an authoritative reload. Local state never diverges from the server
// for more than one round trip, and a failed mutation leaves prior state
// untouched.
package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Line is a cart line item, unique by product id. Name, price, image and
// stock are a point-in-time snapshot of the product, not authoritative data.
type Line struct {
	ProductID string
	Quantity  int
	Name      string
	Price     decimal.Decimal
	Image     string
	Stock     int
}

// Backend defines the remote cart operations the store depends on.
type Backend interface {
	FetchCart(ctx context.Context) ([]Line, error)
	AddCartItem(ctx context.Context, productID string) error
	UpdateCartItem(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

// Store holds the cart lines for the current session. It is the exclusive
// owner of that state; all writes go through its operations.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	lines []Line
}

// NewStore creates an empty Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Refresh replaces local state with the server's cart.
func (s *Store) Refresh(ctx context.Context) error {
	lines, err := s.backend.FetchCart(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch cart")
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// Lines returns a copy of the current line items.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// Add inserts the product or increments its quantity, then reloads.
func (s *Store) Add(ctx context.Context, productID string) error {
	if err := s.backend.AddCartItem(ctx, productID); err != nil {
		return errors.Wrap(err, "add to cart")
	}
	return s.Refresh(ctx)
}

// SetQuantity sets the line's quantity to n. A quantity below 1 is
// equivalent to removing the line.
func (s *Store) SetQuantity(ctx context.Context, productID string, n int) error {
	if n < 1 {
		return s.Remove(ctx, productID)
	}
	if err := s.backend.UpdateCartItem(ctx, productID, n); err != nil {
		return errors.Wrap(err, "update cart item")
	}
	return s.Refresh(ctx)
}

// Remove deletes the line, then reloads.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if err := s.backend.RemoveCartItem(ctx, productID); err != nil {
		return errors.Wrap(err, "remove from cart")
	}
	return s.Refresh(ctx)
}

// Clear empties the cart in bulk, then reloads.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.ClearCart(ctx); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return s.Refresh(ctx)
}
