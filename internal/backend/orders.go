package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/checkout"
	"github.com/xenking/shopfront/internal/domain/order"
)

var _ order.Backend = (*Client)(nil)

// ListOrders returns the current user's order history.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	data, err := c.get(ctx, "/api/orders")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeOrder)
}

// GetOrder returns a single order.
func (c *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	data, err := c.get(ctx, "/api/orders/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	o, err := decodeOne(data, decodeOrder)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderAnalytics returns the backend's aggregate order metrics.
func (c *Client) OrderAnalytics(ctx context.Context) (*order.Analytics, error) {
	data, err := c.get(ctx, "/api/orders/analytics")
	if err != nil {
		return nil, err
	}

	a := order.Analytics{StatusCounts: make(map[order.Status]int)}
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "totalOrders":
			a.TotalOrders, err = d.Int()
		case "totalRevenue":
			a.TotalRevenue, err = decodeDecimal(d)
		case "statusCounts":
			err = d.Obj(func(d *jx.Decoder, status string) error {
				n, err := d.Int()
				if err != nil {
					return err
				}
				a.StatusCounts[order.Status(status)] = n
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode order analytics")
	}
	return &a, nil
}

// CancelOrder requests the Pending -> Canceled transition.
func (c *Client) CancelOrder(ctx context.Context, id string) error {
	_, err := c.put(ctx, "/api/orders/"+url.PathEscape(id)+"/cancel", nil)
	return err
}

// CreateOrder submits the checkout payload and returns the created order.
// The idempotency key rides on a header so a retried submission cannot
// double-create.
func (c *Client) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*order.Order, error) {
	items := make([]map[string]any, len(req.Items))
	for i, it := range req.Items {
		items[i] = map[string]any{"productId": it.ProductID, "quantity": it.Quantity}
	}

	body := map[string]any{
		"pnr":      req.PNR,
		"items":    items,
		"total":    req.Total.StringFixed(2),
		"shipping": encodeAddress(req.Shipping),
		"billing":  encodeAddress(req.Billing),
		"payment":  encodePayment(req.Payment),
	}
	header := http.Header{"Idempotency-Key": []string{req.IdempotencyKey}}

	data, err := c.do(ctx, http.MethodPost, "/api/orders", body, header)
	if err != nil {
		return nil, err
	}
	o, err := decodeOne(data, decodeOrder)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func encodeAddress(a order.Address) map[string]string {
	return map[string]string{
		"street":     a.Street,
		"city":       a.City,
		"state":      a.State,
		"postalCode": a.PostalCode,
		"country":    a.Country,
	}
}

func encodePayment(p order.PaymentMethod) map[string]any {
	out := map[string]any{"kind": string(p.Kind)}
	if p.Card != nil {
		out["card"] = map[string]string{"last4": p.Card.Last4}
	}
	if p.Mobile != nil {
		out["mobileMoney"] = map[string]string{
			"provider": string(p.Mobile.Provider),
			"phone":    p.Mobile.Phone,
		}
	}
	return out
}

func decodeOrder(d *jx.Decoder) (order.Order, error) {
	var o order.Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Str()
		case "pnr":
			o.PNR, err = d.Str()
		case "items":
			o.Items, err = decodeArr(d, decodeOrderItem)
		case "total":
			o.Total, err = decodeDecimal(d)
		case "status":
			var s string
			s, err = d.Str()
			o.Status = order.Status(s)
		case "shipping":
			o.Shipping, err = decodeAddress(d)
		case "billing":
			o.Billing, err = decodeAddress(d)
		case "payment":
			o.Payment, err = decodePayment(d)
		case "createdAt":
			o.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return o, err
}

func decodeOrderItem(d *jx.Decoder) (order.Item, error) {
	var it order.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			it.ProductID, err = d.Str()
		case "quantity":
			it.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}

func decodeAddress(d *jx.Decoder) (order.Address, error) {
	var a order.Address
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "street":
			a.Street, err = d.Str()
		case "city":
			a.City, err = d.Str()
		case "state":
			a.State, err = d.Str()
		case "postalCode":
			a.PostalCode, err = d.Str()
		case "country":
			a.Country, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return a, err
}

func decodePayment(d *jx.Decoder) (order.PaymentMethod, error) {
	var p order.PaymentMethod
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "kind":
			var s string
			s, err = d.Str()
			p.Kind = order.MethodKind(s)
		case "card":
			var card order.CardPayment
			err = d.Obj(func(d *jx.Decoder, key string) error {
				if key != "last4" {
					return d.Skip()
				}
				var err error
				card.Last4, err = d.Str()
				return err
			})
			p.Card = &card
		case "mobileMoney":
			var mm order.MobileMoneyPayment
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "provider":
					var s string
					s, err = d.Str()
					mm.Provider = order.Provider(s)
				case "phone":
					mm.Phone, err = d.Str()
				default:
					err = d.Skip()
				}
				return err
			})
			p.Mobile = &mm
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return p, errors.Wrap(err, "decode payment method")
	}
	return p, nil
}
