package backend

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/checkout"
	"github.com/xenking/shopfront/internal/domain/order"
)

var _ checkout.Backend = (*Client)(nil)

// CreatePaymentIntent asks the backend for a card payment authorization
// handle sized to the given amount in minor currency units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*checkout.PaymentIntent, error) {
	data, err := c.post(ctx, "/api/payments/intent", map[string]any{
		"amount":   amountMinor,
		"currency": currency,
	})
	if err != nil {
		return nil, err
	}

	var intent checkout.PaymentIntent
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			intent.ID, err = d.Str()
		case "clientSecret":
			intent.ClientSecret, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode payment intent")
	}
	return &intent, nil
}

// PayMobileMoney submits a mobile-money payment through the provider's
// backend endpoint.
func (c *Client) PayMobileMoney(ctx context.Context, provider order.Provider, phone string, amount decimal.Decimal) error {
	_, err := c.post(ctx, "/api/payments/mobile", map[string]string{
		"provider": string(provider),
		"phone":    phone,
		"amount":   amount.StringFixed(2),
	})
	return err
}
