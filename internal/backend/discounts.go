package backend

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/discount"
)

var _ discount.Backend = (*Client)(nil)

// ValidateDiscount submits a code for validation and returns the backend's
// verdict. Invalid codes come back as a remote.Error whose message is shown
// verbatim.
func (c *Client) ValidateDiscount(ctx context.Context, code string) (*discount.Validation, error) {
	data, err := c.post(ctx, "/api/discounts/validate", map[string]string{"code": code})
	if err != nil {
		return nil, err
	}

	var v discount.Validation
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			v.Code, err = d.Str()
		case "percentage":
			v.Percentage, err = decodeDecimal(d)
		case "expiresAt":
			var t time.Time
			t, err = decodeTime(d)
			if err == nil && !t.IsZero() {
				v.ExpiresAt = &t
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode validation")
	}
	return &v, nil
}
