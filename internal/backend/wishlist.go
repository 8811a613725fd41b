package backend

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/wishlist"
)

var _ wishlist.Backend = (*Client)(nil)

// FetchWishlist returns the authoritative server-side wishlist.
func (c *Client) FetchWishlist(ctx context.Context) ([]wishlist.Item, error) {
	data, err := c.get(ctx, "/api/wishlist")
	if err != nil {
		return nil, errors.Wrap(err, "fetch wishlist")
	}
	return decodeList(data, decodeWishlistItem)
}

// AddWishlistItem puts the product on the server-side wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, productID string) error {
	_, err := c.post(ctx, "/api/wishlist/items", map[string]string{"productId": productID})
	return err
}

// RemoveWishlistItem takes the product off the server-side wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) error {
	_, err := c.delete(ctx, "/api/wishlist/items/"+url.PathEscape(productID))
	return err
}

func decodeWishlistItem(d *jx.Decoder) (wishlist.Item, error) {
	var it wishlist.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			it.ProductID, err = d.Str()
		case "name":
			it.Name, err = d.Str()
		case "price":
			it.Price, err = decodeDecimal(d)
		case "image":
			it.Image, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}
