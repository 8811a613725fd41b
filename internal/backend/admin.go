package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/admin"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
)

var _ admin.Backend = (*Client)(nil)

// ListProductsAdmin returns the catalog through the privileged endpoint,
// which includes unpublished products.
func (c *Client) ListProductsAdmin(ctx context.Context) ([]product.Product, error) {
	data, err := c.get(ctx, "/api/admin/products")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeProduct)
}

// CreateProduct creates a product and returns the stored entity.
func (c *Client) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	data, err := c.post(ctx, "/api/admin/products", encodeProduct(p))
	if err != nil {
		return nil, err
	}
	created, err := decodeOne(data, decodeProduct)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct updates a product and returns the stored entity.
func (c *Client) UpdateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	data, err := c.put(ctx, "/api/admin/products/"+url.PathEscape(p.ID), encodeProduct(p))
	if err != nil {
		return nil, err
	}
	updated, err := decodeOne(data, decodeProduct)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/api/admin/products/"+url.PathEscape(id))
	return err
}

func encodeProduct(p product.Product) map[string]any {
	return map[string]any{
		"name":     p.Name,
		"price":    p.Price.String(),
		"category": p.Category,
		"image":    p.Image,
		"stock":    p.Stock,
	}
}

// ListUsers returns all accounts.
func (c *Client) ListUsers(ctx context.Context) ([]admin.User, error) {
	data, err := c.get(ctx, "/api/admin/users")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeAdminUser)
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, u admin.User) (*admin.User, error) {
	data, err := c.post(ctx, "/api/admin/users", encodeUser(u))
	if err != nil {
		return nil, err
	}
	created, err := decodeOne(data, decodeAdminUser)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser updates an account.
func (c *Client) UpdateUser(ctx context.Context, u admin.User) (*admin.User, error) {
	data, err := c.put(ctx, "/api/admin/users/"+url.PathEscape(u.ID), encodeUser(u))
	if err != nil {
		return nil, err
	}
	updated, err := decodeOne(data, decodeAdminUser)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/api/admin/users/"+url.PathEscape(id))
	return err
}

func encodeUser(u admin.User) map[string]string {
	return map[string]string{"name": u.Name, "email": u.Email, "role": u.Role}
}

func decodeAdminUser(d *jx.Decoder) (admin.User, error) {
	var u admin.User
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			u.ID, err = d.Str()
		case "name":
			u.Name, err = d.Str()
		case "email":
			u.Email, err = d.Str()
		case "role":
			u.Role, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return u, err
}

// ListBundles returns all bundles.
func (c *Client) ListBundles(ctx context.Context) ([]admin.Bundle, error) {
	data, err := c.get(ctx, "/api/bundles")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeBundle)
}

// CreateBundle creates a bundle.
func (c *Client) CreateBundle(ctx context.Context, b admin.Bundle) (*admin.Bundle, error) {
	data, err := c.post(ctx, "/api/admin/bundles", encodeBundle(b))
	if err != nil {
		return nil, err
	}
	created, err := decodeOne(data, decodeBundle)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBundle updates a bundle.
func (c *Client) UpdateBundle(ctx context.Context, b admin.Bundle) (*admin.Bundle, error) {
	data, err := c.put(ctx, "/api/admin/bundles/"+url.PathEscape(b.ID), encodeBundle(b))
	if err != nil {
		return nil, err
	}
	updated, err := decodeOne(data, decodeBundle)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBundle removes a bundle.
func (c *Client) DeleteBundle(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/api/admin/bundles/"+url.PathEscape(id))
	return err
}

func encodeBundle(b admin.Bundle) map[string]any {
	return map[string]any{
		"name":        b.Name,
		"description": b.Description,
		"productIds":  b.ProductIDs,
		"price":       b.Price.String(),
		"discount":    b.Discount.String(),
	}
}

func decodeBundle(d *jx.Decoder) (admin.Bundle, error) {
	var b admin.Bundle
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			b.ID, err = d.Str()
		case "name":
			b.Name, err = d.Str()
		case "description":
			b.Description, err = d.Str()
		case "productIds":
			b.ProductIDs, err = decodeArr(d, func(d *jx.Decoder) (string, error) { return d.Str() })
		case "price":
			b.Price, err = decodeDecimal(d)
		case "discount":
			b.Discount, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return b, err
}

// ListDiscountCodes returns all managed promo codes.
func (c *Client) ListDiscountCodes(ctx context.Context) ([]admin.DiscountCode, error) {
	data, err := c.get(ctx, "/api/admin/discounts")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeDiscountCode)
}

// CreateDiscountCode creates a promo code.
func (c *Client) CreateDiscountCode(ctx context.Context, dc admin.DiscountCode) (*admin.DiscountCode, error) {
	data, err := c.post(ctx, "/api/admin/discounts", encodeDiscountCode(dc))
	if err != nil {
		return nil, err
	}
	created, err := decodeOne(data, decodeDiscountCode)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDiscountCode updates a promo code and returns the stored entity.
func (c *Client) UpdateDiscountCode(ctx context.Context, dc admin.DiscountCode) (*admin.DiscountCode, error) {
	data, err := c.put(ctx, "/api/admin/discounts/"+url.PathEscape(dc.ID), encodeDiscountCode(dc))
	if err != nil {
		return nil, err
	}
	updated, err := decodeOne(data, decodeDiscountCode)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func encodeDiscountCode(dc admin.DiscountCode) map[string]any {
	body := map[string]any{
		"code":       dc.Code,
		"percentage": dc.Percentage.String(),
	}
	if dc.ExpiresAt != nil {
		body["expiresAt"] = dc.ExpiresAt.Format(time.RFC3339)
	}
	return body
}

// DeleteDiscountCode removes a promo code.
func (c *Client) DeleteDiscountCode(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/api/admin/discounts/"+url.PathEscape(id))
	return err
}

func decodeDiscountCode(d *jx.Decoder) (admin.DiscountCode, error) {
	var dc admin.DiscountCode
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			dc.ID, err = d.Str()
		case "code":
			dc.Code, err = d.Str()
		case "percentage":
			dc.Percentage, err = decodeDecimal(d)
		case "expiresAt":
			var t time.Time
			t, err = decodeTime(d)
			if err == nil && !t.IsZero() {
				dc.ExpiresAt = &t
			}
		default:
			err = d.Skip()
		}
		return err
	})
	return dc, err
}

// ListPendingReviews returns reviews awaiting moderation.
func (c *Client) ListPendingReviews(ctx context.Context) ([]admin.Review, error) {
	data, err := c.get(ctx, "/api/admin/reviews/pending")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeReview)
}

// ApproveReview approves a pending review.
func (c *Client) ApproveReview(ctx context.Context, id string) error {
	_, err := c.put(ctx, "/api/admin/reviews/"+url.PathEscape(id)+"/approve", nil)
	return err
}

func decodeReview(d *jx.Decoder) (admin.Review, error) {
	var r admin.Review
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			r.ID, err = d.Str()
		case "productId":
			r.ProductID, err = d.Str()
		case "userId":
			r.UserID, err = d.Str()
		case "rating":
			r.Rating, err = d.Int()
		case "comment":
			r.Comment, err = d.Str()
		case "approved":
			r.Approved, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return r, err
}

// ListReturnRequests returns customer returns awaiting a decision.
func (c *Client) ListReturnRequests(ctx context.Context) ([]admin.ReturnRequest, error) {
	data, err := c.get(ctx, "/api/admin/returns")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeReturnRequest)
}

// ApproveReturn approves a return request.
func (c *Client) ApproveReturn(ctx context.Context, id string) error {
	_, err := c.put(ctx, "/api/admin/returns/"+url.PathEscape(id)+"/approve", nil)
	return err
}

// RejectReturn rejects a return request.
func (c *Client) RejectReturn(ctx context.Context, id string) error {
	_, err := c.put(ctx, "/api/admin/returns/"+url.PathEscape(id)+"/reject", nil)
	return err
}

func decodeReturnRequest(d *jx.Decoder) (admin.ReturnRequest, error) {
	var r admin.ReturnRequest
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			r.ID, err = d.Str()
		case "orderId":
			r.OrderID, err = d.Str()
		case "reason":
			r.Reason, err = d.Str()
		case "status":
			r.Status, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return r, err
}

// UpdateOrderStatus requests a status transition for any order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) error {
	_, err := c.put(ctx, "/api/admin/orders/"+url.PathEscape(id)+"/status", map[string]string{
		"status": string(status),
	})
	return err
}

// ListAllOrders pages the entire order book through the privileged endpoint.
func (c *Client) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	data, err := c.get(ctx, "/api/admin/orders")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeOrder)
}
