package backend

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/product"
	"github.com/xenking/shopfront/internal/domain/remote"
)

var _ product.Catalog = (*Client)(nil)

// List returns the full product catalog.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	data, err := c.get(ctx, "/api/products")
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return decodeList(data, decodeProduct)
}

// Get returns a single product by id.
func (c *Client) Get(ctx context.Context, id string) (*product.Product, error) {
	data, err := c.get(ctx, "/api/products/"+url.PathEscape(id))
	if err != nil {
		var re *remote.Error
		if errors.As(err, &re) && re.StatusCode == 404 {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	p, err := decodeOne(data, decodeProduct)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Related returns products related to the given product.
func (c *Client) Related(ctx context.Context, id string) ([]product.Product, error) {
	data, err := c.get(ctx, "/api/products/"+url.PathEscape(id)+"/related")
	if err != nil {
		return nil, errors.Wrap(err, "related products")
	}
	return decodeList(data, decodeProduct)
}

// Recommendations returns products recommended for the current user.
func (c *Client) Recommendations(ctx context.Context) ([]product.Product, error) {
	data, err := c.get(ctx, "/api/products/recommendations")
	if err != nil {
		return nil, errors.Wrap(err, "recommendations")
	}
	return decodeList(data, decodeProduct)
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "category":
			p.Category, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "stock":
			p.Stock, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}
