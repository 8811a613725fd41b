package backend

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// decodeDecimal accepts NUMERIC values serialized either as JSON numbers or
// as strings, which the backend mixes across endpoints.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(n.String())
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		return decimal.Zero, errors.Errorf("unexpected %s for decimal value", d.Next())
	}
}

// decodeTime decodes an RFC 3339 timestamp. Null yields the zero time.
func decodeTime(d *jx.Decoder) (time.Time, error) {
	if d.Next() == jx.Null {
		return time.Time{}, d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse timestamp %q", s)
	}
	return t, nil
}

// decodeArr decodes a JSON array by applying decode to each element.
func decodeArr[T any](d *jx.Decoder, decode func(*jx.Decoder) (T, error)) ([]T, error) {
	var out []T
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := decode(d)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// decodeOne runs decode over a raw response body.
func decodeOne[T any](data []byte, decode func(*jx.Decoder) (T, error)) (T, error) {
	d := jx.DecodeBytes(data)
	v, err := decode(d)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "decode response")
	}
	return v, nil
}

// decodeList runs decode over each element of a raw array response body.
func decodeList[T any](data []byte, decode func(*jx.Decoder) (T, error)) ([]T, error) {
	d := jx.DecodeBytes(data)
	out, err := decodeArr(d, decode)
	if err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return out, nil
}
