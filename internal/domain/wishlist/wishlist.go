// Package wishlist owns the session's wishlist: the same shape as the cart
// store but without quantities. Mutations follow the same
// mutate-then-authoritative-reload contract.
package wishlist

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Item is a wishlist entry, unique by product id.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
}

// Backend defines the remote wishlist operations the store depends on.
type Backend interface {
	FetchWishlist(ctx context.Context) ([]Item, error)
	AddWishlistItem(ctx context.Context, productID string) error
	RemoveWishlistItem(ctx context.Context, productID string) error
}

// CartAdder is the slice of the cart store needed to move an item across.
type CartAdder interface {
	Add(ctx context.Context, productID string) error
}

// Store holds the wishlist items for the current session.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	items []Item
}

// NewStore creates an empty Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Refresh replaces local state with the server's wishlist.
func (s *Store) Refresh(ctx context.Context) error {
	items, err := s.backend.FetchWishlist(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch wishlist")
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current wishlist.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether the product is on the wishlist.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Add puts the product on the wishlist, then reloads.
func (s *Store) Add(ctx context.Context, productID string) error {
	if err := s.backend.AddWishlistItem(ctx, productID); err != nil {
		return errors.Wrap(err, "add to wishlist")
	}
	return s.Refresh(ctx)
}

// Remove takes the product off the wishlist, then reloads.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if err := s.backend.RemoveWishlistItem(ctx, productID); err != nil {
		return errors.Wrap(err, "remove from wishlist")
	}
	return s.Refresh(ctx)
}

// MoveToCart adds the product to the cart and, only once that succeeds,
// removes it from the wishlist.
func (s *Store) MoveToCart(ctx context.Context, cart CartAdder, productID string) error {
	if !s.Contains(productID) {
		return errors.Errorf("product %s is not on the wishlist", productID)
	}
	if err := cart.Add(ctx, productID); err != nil {
		return errors.Wrap(err, "move to cart")
	}
	return s.Remove(ctx, productID)
}
