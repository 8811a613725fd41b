package backend

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shopfront/internal/domain/order"
)

// ListNotifications returns the user's notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]order.Notification, error) {
	data, err := c.get(ctx, "/api/notifications")
	if err != nil {
		return nil, err
	}
	return decodeList(data, decodeNotification)
}

// UnreadNotifications returns the unread notification count.
func (c *Client) UnreadNotifications(ctx context.Context) (int, error) {
	data, err := c.get(ctx, "/api/notifications/unread")
	if err != nil {
		return 0, err
	}

	var count int
	d := jx.DecodeBytes(data)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "count" {
			return d.Skip()
		}
		var err error
		count, err = d.Int()
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "decode unread count")
	}
	return count, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.put(ctx, "/api/notifications/"+url.PathEscape(id)+"/read", nil)
	return err
}

func decodeNotification(d *jx.Decoder) (order.Notification, error) {
	var n order.Notification
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			n.ID, err = d.Str()
		case "message":
			n.Message, err = d.Str()
		case "read":
			n.Read, err = d.Bool()
		case "createdAt":
			n.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return n, err
}
