package product

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// --- Mock implementations ---

type mockCatalog struct {
	products map[string]*Product
	related  []Product
	recs     []Product

	relatedErr error
	recsErr    error
}

func (m *mockCatalog) List(_ context.Context) ([]Product, error) { return nil, nil }

func (m *mockCatalog) Get(_ context.Context, id string) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) Related(_ context.Context, _ string) ([]Product, error) {
	return m.related, m.relatedErr
}

func (m *mockCatalog) Recommendations(_ context.Context) ([]Product, error) {
	return m.recs, m.recsErr
}

// --- Tests ---

func TestBrowser_Detail(t *testing.T) {
	catalog := &mockCatalog{
		products: map[string]*Product{
			"p1": {ID: "p1", Name: "Widget", Price: decimal.RequireFromString("10.00")},
		},
		related: []Product{{ID: "p2", Name: "Gadget"}},
		recs:    []Product{{ID: "p3", Name: "Gizmo"}},
	}
	b := NewBrowser(catalog, zaptest.NewLogger(t))

	d, err := b.Detail(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", d.Product.Name)
	require.Len(t, d.Related, 1)
	assert.Equal(t, "p2", d.Related[0].ID)
	require.Len(t, d.Recommended, 1)
	assert.Equal(t, "p3", d.Recommended[0].ID)
}

func TestBrowser_DetailProductNotFound(t *testing.T) {
	b := NewBrowser(&mockCatalog{products: map[string]*Product{}}, zaptest.NewLogger(t))

	_, err := b.Detail(context.Background(), "missing")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestBrowser_EnrichmentFailuresDegradeToEmpty(t *testing.T) {
	catalog := &mockCatalog{
		products: map[string]*Product{
			"p1": {ID: "p1", Name: "Widget"},
		},
		relatedErr: errors.New("related endpoint down"),
		recsErr:    errors.New("recommendations endpoint down"),
	}
	b := NewBrowser(catalog, zaptest.NewLogger(t))

	d, err := b.Detail(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", d.Product.Name)
	assert.Empty(t, d.Related)
	assert.Empty(t, d.Recommended)
}
