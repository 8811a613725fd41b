package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockBackend struct {
	lines []Line

	addErr    error
	updateErr error
	removeErr error
	clearErr  error
	fetchErr  error

	removed []string
	updated map[string]int
	cleared bool
}

func (m *mockBackend) FetchCart(_ context.Context) ([]Line, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *mockBackend) AddCartItem(_ context.Context, productID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity++
			return nil
		}
	}
	m.lines = append(m.lines, Line{ProductID: productID, Quantity: 1})
	return nil
}

func (m *mockBackend) UpdateCartItem(_ context.Context, productID string, quantity int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[string]int)
	}
	m.updated[productID] = quantity
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity = quantity
		}
	}
	return nil
}

func (m *mockBackend) RemoveCartItem(_ context.Context, productID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, productID)
	kept := m.lines[:0]
	for _, l := range m.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	m.lines = kept
	return nil
}

func (m *mockBackend) ClearCart(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.lines = nil
	return nil
}

// --- Helpers ---

func line(id string, qty int, price string) Line {
	return Line{
		ProductID: id,
		Quantity:  qty,
		Name:      "product " + id,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
	}
}

// --- Tests ---

func TestStore_AddReloadsFromServer(t *testing.T) {
	backend := &mockBackend{}
	store := NewStore(backend)

	require.NoError(t, store.Add(context.Background(), "p1"))
	require.NoError(t, store.Add(context.Background(), "p1"))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.False(t, store.IsEmpty())
}

func TestStore_FailedMutationLeavesStateUntouched(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 1, "10.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	backend.addErr = errors.New("boom")
	err := store.Add(context.Background(), "p2")

	require.Error(t, err)
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
}

func TestStore_SetQuantityBelowOneRemoves(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 3, "10.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.SetQuantity(context.Background(), "p1", 0))

	assert.Equal(t, []string{"p1"}, backend.removed)
	assert.Empty(t, backend.updated)
	assert.True(t, store.IsEmpty())
}

func TestStore_SetQuantityUpdatesLine(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 1, "10.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.SetQuantity(context.Background(), "p1", 5))

	assert.Equal(t, 5, backend.updated["p1"])
	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 5, store.Lines()[0].Quantity)
}

func TestStore_ClearEmptiesCart(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 2, "10.00"), line("p2", 1, "5.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.Clear(context.Background()))

	assert.True(t, backend.cleared)
	assert.True(t, store.IsEmpty())
}

func TestStore_Subtotal(t *testing.T) {
	backend := &mockBackend{lines: []Line{
		line("p1", 2, "10.00"),
		line("p2", 1, "20.00"),
	}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	assert.True(t, decimal.RequireFromString("40.00").Equal(store.Subtotal()))
}

func TestStore_Total(t *testing.T) {
	backend := &mockBackend{lines: []Line{
		line("p1", 2, "10.00"),
		line("p2", 1, "20.00"),
	}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	tests := []struct {
		name string
		pct  string
		want string
	}{
		{name: "no discount", pct: "0", want: "40.00"},
		{name: "ten percent", pct: "10", want: "36.00"},
		{name: "full discount", pct: "100", want: "0.00"},
		{name: "fractional rounds to cents", pct: "33.333", want: "26.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Total(decimal.RequireFromString(tt.pct))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestStore_TotalClampedAtZero(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 1, "10.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	got := store.Total(decimal.RequireFromString("150"))
	assert.True(t, got.IsZero())
}

func TestStore_LinesReturnsCopy(t *testing.T) {
	backend := &mockBackend{lines: []Line{line("p1", 1, "10.00")}}
	store := NewStore(backend)
	require.NoError(t, store.Refresh(context.Background()))

	lines := store.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, store.Lines()[0].Quantity)
}
