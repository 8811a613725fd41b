package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/shopfront/internal/domain/remote"
)

// ErrNotCancellable is returned when a cancellation is requested for an
// order that is no longer pending.
var ErrNotCancellable = errors.New("only pending orders can be canceled")

const (
	historyAttempts = 2
	historyDelay    = 2 * time.Second
)

// Surface is the read-mostly view over backend-owned orders and
// notifications. Filtering over an already-fetched history is client-side;
// there is no server round trip for it.
type Surface struct {
	backend Backend

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewSurface creates a Surface over the given backend.
func NewSurface(backend Backend) *Surface {
	return &Surface{backend: backend, sleep: time.Sleep}
}

// History fetches the full order list. Transport failures are retried once
// after a fixed delay; server-reported errors are returned immediately.
func (s *Surface) History(ctx context.Context) ([]Order, error) {
	var lastErr error
	for attempt := 0; attempt < historyAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(historyDelay)
		}
		orders, err := s.backend.ListOrders(ctx)
		if err == nil {
			return orders, nil
		}
		if remote.IsServerError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, "fetch order history")
}

// Detail fetches a single order.
func (s *Surface) Detail(ctx context.Context, id string) (*Order, error) {
	o, err := s.backend.GetOrder(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}

// CanCancel reports whether the cancel action should be offered for o.
func CanCancel(o Order) bool {
	return o.Status == StatusPending
}

// Cancel requests the Pending -> Canceled transition for o. The backend owns
// the transition; the client only gates on the displayed status.
func (s *Surface) Cancel(ctx context.Context, o Order) error {
	if !CanCancel(o) {
		return ErrNotCancellable
	}
	return s.backend.CancelOrder(ctx, o.ID)
}

// Notifications fetches the user's notifications.
func (s *Surface) Notifications(ctx context.Context) ([]Notification, error) {
	return s.backend.ListNotifications(ctx)
}

// Unread fetches the unread notification count.
func (s *Surface) Unread(ctx context.Context) (int, error) {
	return s.backend.UnreadNotifications(ctx)
}

// MarkRead marks a single notification as read.
func (s *Surface) MarkRead(ctx context.Context, id string) error {
	return s.backend.MarkNotificationRead(ctx, id)
}

// FilterStatus returns the orders whose status exactly matches st.
func FilterStatus(orders []Order, st Status) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out
}

// FilterDay returns the orders created on the same calendar day as day,
// evaluated in day's location.
func FilterDay(orders []Order, day time.Time) []Order {
	y, m, d := day.Date()
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		oy, om, od := o.CreatedAt.In(day.Location()).Date()
		if oy == y && om == m && od == d {
			out = append(out, o)
		}
	}
	return out
}
