package backend

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/session"
)

var _ session.Backend = (*Client)(nil)

// Login exchanges credentials for a bearer token and the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (string, *session.Identity, error) {
	data, err := c.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	var (
		token string
		id    session.Identity
	)
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "token":
			token, err = d.Str()
		case "user":
			id, err = decodeIdentity(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "decode login response")
	}
	return token, &id, nil
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*session.Identity, error) {
	data, err := c.get(ctx, "/api/users/profile")
	if err != nil {
		return nil, err
	}
	id, err := decodeOne(data, decodeIdentity)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeIdentity(d *jx.Decoder) (session.Identity, error) {
	var id session.Identity
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			id.UserID, err = d.Str()
		case "name":
			id.Name, err = d.Str()
		case "email":
			id.Email, err = d.Str()
		case "role":
			id.Role, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return id, err
}
