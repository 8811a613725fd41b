package product

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Detail is a product together with its optional enrichment sections.
// Related and Recommended may be empty when their fetches failed; the
// primary product is the only required part.
type Detail struct {
	Product     Product
	Related     []Product
	Recommended []Product
}

// Browser assembles product detail views. Enrichment fetches (related
// products, recommendations) fail silently: a failure degrades its section
// to an empty slice and is only logged.
type Browser struct {
	catalog Catalog
	lg      *zap.Logger
}

// NewBrowser creates a Browser over the given catalog.
func NewBrowser(catalog Catalog, lg *zap.Logger) *Browser {
	return &Browser{catalog: catalog, lg: lg}
}

// Detail fetches a product plus its enrichment sections in parallel.
// An error fetching the product itself is returned; enrichment errors are not.
func (b *Browser) Detail(ctx context.Context, id string) (*Detail, error) {
	var d Detail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := b.catalog.Get(gctx, id)
		if err != nil {
			return errors.Wrap(err, "get product")
		}
		d.Product = *p
		return nil
	})
	g.Go(func() error {
		related, err := b.catalog.Related(gctx, id)
		if err != nil {
			b.lg.Warn("Related products unavailable", zap.String("product_id", id), zap.Error(err))
			return nil
		}
		d.Related = related
		return nil
	})
	g.Go(func() error {
		recs, err := b.catalog.Recommendations(gctx)
		if err != nil {
			b.lg.Warn("Recommendations unavailable", zap.Error(err))
			return nil
		}
		d.Recommended = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
