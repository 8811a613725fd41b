package backend

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/cart"
)

var _ cart.Backend = (*Client)(nil)

// FetchCart returns the authoritative server-side cart.
func (c *Client) FetchCart(ctx context.Context) ([]cart.Line, error) {
	data, err := c.get(ctx, "/api/cart")
	if err != nil {
		return nil, errors.Wrap(err, "fetch cart")
	}

	var lines []cart.Line
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		items, err := decodeArr(d, decodeCartLine)
		if err != nil {
			return err
		}
		lines = items
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return lines, nil
}

// AddCartItem inserts the product or increments its quantity server-side.
func (c *Client) AddCartItem(ctx context.Context, productID string) error {
	_, err := c.post(ctx, "/api/cart/items", map[string]string{"productId": productID})
	return err
}

// UpdateCartItem sets the line's quantity server-side.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	_, err := c.put(ctx, "/api/cart/items/"+url.PathEscape(productID), map[string]int{"quantity": quantity})
	return err
}

// RemoveCartItem deletes the line server-side.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	_, err := c.delete(ctx, "/api/cart/items/"+url.PathEscape(productID))
	return err
}

// ClearCart empties the server-side cart.
func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.delete(ctx, "/api/cart")
	return err
}

func decodeCartLine(d *jx.Decoder) (cart.Line, error) {
	var line cart.Line
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			line.ProductID, err = d.Str()
		case "quantity":
			line.Quantity, err = d.Int()
		case "product":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "name":
					line.Name, err = d.Str()
				case "price":
					line.Price, err = decodeDecimal(d)
				case "image":
					line.Image, err = d.Str()
				case "stock":
					line.Stock, err = d.Int()
				default:
					err = d.Skip()
				}
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return line, err
}
