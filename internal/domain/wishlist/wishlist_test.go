package wishlist

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockBackend struct {
	items []Item

	addErr    error
	removeErr error
}

func (m *mockBackend) FetchWishlist(_ context.Context) ([]Item, error) {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *mockBackend) AddWishlistItem(_ context.Context, productID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.items = append(m.items, Item{ProductID: productID})
	return nil
}

func (m *mockBackend) RemoveWishlistItem(_ context.Context, productID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return nil
}

type mockCart struct {
	added  []string
	addErr error
}

func (m *mockCart) Add(_ context.Context, productID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, productID)
	return nil
}

// --- Tests ---

func TestStore_AddAndContains(t *testing.T) {
	store := NewStore(&mockBackend{})

	require.NoError(t, store.Add(context.Background(), "p1"))

	assert.True(t, store.Contains("p1"))
	assert.False(t, store.Contains("p2"))
	assert.Len(t, store.Items(), 1)
}

func TestStore_Remove(t *testing.T) {
	backend := &mockBackend{items: []Item{{ProductID: "p1"}, {ProductID: "p2"}}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.Remove(context.Background(), "p1"))

	assert.False(t, store.Contains("p1"))
	assert.True(t, store.Contains("p2"))
}

func TestStore_MoveToCart(t *testing.T) {
	backend := &mockBackend{items: []Item{{ProductID: "p1"}}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))
	cart := &mockCart{}

	require.NoError(t, store.MoveToCart(context.Background(), cart, "p1"))

	assert.Equal(t, []string{"p1"}, cart.added)
	assert.False(t, store.Contains("p1"))
}

func TestStore_MoveToCartUnknownProduct(t *testing.T) {
	store := NewStore(&mockBackend{})
	cart := &mockCart{}

	err := store.MoveToCart(context.Background(), cart, "p1")

	require.Error(t, err)
	assert.Empty(t, cart.added)
}

func TestStore_MoveToCartKeepsItemWhenCartAddFails(t *testing.T) {
	backend := &mockBackend{items: []Item{{ProductID: "p1"}}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))
	cart := &mockCart{addErr: errors.New("out of stock")}

	err := store.MoveToCart(context.Background(), cart, "p1")

	require.Error(t, err)
	assert.True(t, store.Contains("p1"))
}
