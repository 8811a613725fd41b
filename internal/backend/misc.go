package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/admin"
)

// SubmitReview posts a product review. It enters the moderation queue and
// is not visible until approved.
func (c *Client) SubmitReview(ctx context.Context, productID string, rating int, comment string) error {
	_, err := c.post(ctx, "/api/products/"+url.PathEscape(productID)+"/reviews", map[string]any{
		"rating":  rating,
		"comment": comment,
	})
	return err
}

// ListReviews returns a product's approved reviews.
func (c *Client) ListReviews(ctx context.Context, productID string) ([]admin.Review, error) {
	data, err := c.get(ctx, "/api/products/"+url.PathEscape(productID)+"/reviews")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeReview)
}

// RequestReturn opens a return request for a delivered order.
func (c *Client) RequestReturn(ctx context.Context, orderID, reason string) error {
	_, err := c.post(ctx, "/api/returns", map[string]string{
		"orderId": orderID,
		"reason":  reason,
	})
	return err
}

// CreateSupportTicket opens a support ticket.
func (c *Client) CreateSupportTicket(ctx context.Context, subject, message string) error {
	_, err := c.post(ctx, "/api/support", map[string]string{
		"subject": subject,
		"message": message,
	})
	return err
}

// SupportTicket is a user's support request and its backend-owned status.
type SupportTicket struct {
	ID        string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
}

// ListSupportTickets returns the current user's support tickets.
func (c *Client) ListSupportTickets(ctx context.Context) ([]SupportTicket, error) {
	data, err := c.get(ctx, "/api/support")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeSupportTicket)
}

func decodeSupportTicket(d *jx.Decoder) (SupportTicket, error) {
	var t SupportTicket
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			t.ID, err = d.Str()
		case "subject":
			t.Subject, err = d.Str()
		case "message":
			t.Message, err = d.Str()
		case "status":
			t.Status, err = d.Str()
		case "createdAt":
			t.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return t, err
}

// Referral is the user's referral code and earned credit balance.
type Referral struct {
	Code    string
	Credits int
}

// GetReferral returns the current user's referral code and credits.
func (c *Client) GetReferral(ctx context.Context) (*Referral, error) {
	data, err := c.get(ctx, "/api/referrals")
	if err != nil {
		return nil, err
	}

	var r Referral
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			r.Code, err = d.Str()
		case "credits":
			r.Credits, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode referral")
	}
	return &r, nil
}

// OAuthRedirectURL builds the backend's OAuth entry point for the given
// provider. The browser flow completes on the backend side.
func (c *Client) OAuthRedirectURL(provider string) string {
	return c.baseURL + "/api/auth/oauth/" + url.PathEscape(provider)
}
