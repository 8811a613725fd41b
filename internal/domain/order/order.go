package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the backend-owned lifecycle state of an order. The client never
// transitions statuses itself; it only requests a cancellation or displays
// the current value.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCanceled  Status = "Canceled"
	StatusReturned  Status = "Returned"
)

// Item is a single order line. Prices are intentionally absent: the backend
// computes authoritative line pricing from the product id and quantity.
type Item struct {
	ProductID string
	Quantity  int
}

// Address is a shipping or billing address attached to an order.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Provider enumerates the supported mobile-money providers.
type Provider string

const (
	// ProviderTelebirr accepts 10-digit numbers with a leading "09".
	ProviderTelebirr Provider = "telebirr"
	// ProviderMpesa accepts 10-digit numbers with a leading "07".
	ProviderMpesa Provider = "mpesa"
)

// MethodKind tags the payment descriptor union.
type MethodKind string

const (
	MethodCard        MethodKind = "card"
	MethodMobileMoney MethodKind = "mobile_money"
)

// PaymentMethod is the tagged union describing how an order was paid.
// Exactly one of Card or Mobile is set, according to Kind.
type PaymentMethod struct {
	Kind   MethodKind
	Card   *CardPayment
	Mobile *MobileMoneyPayment
}

// CardPayment describes a card payment by its redacted detail.
type CardPayment struct {
	Last4 string
}

// MobileMoneyPayment describes a mobile-money payment.
type MobileMoneyPayment struct {
	Provider Provider
	Phone    string
}

// Order is a server-created order. Once returned from the backend it is
// immutable display data on the client.
type Order struct {
	ID        string
	PNR       string
	Items     []Item
	Total     decimal.Decimal
	Status    Status
	Shipping  Address
	Billing   Address
	Payment   PaymentMethod
	CreatedAt time.Time
}

// Analytics is the backend's aggregate view of the order book, displayed on
// the admin dashboard and attached to exports. All values are computed
// server-side.
type Analytics struct {
	TotalOrders  int
	TotalRevenue decimal.Decimal
	StatusCounts map[Status]int
}

// Notification is a backend-owned user notification.
type Notification struct {
	ID        string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// Backend defines the order and notification operations the surface needs.
type Backend interface {
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	CancelOrder(ctx context.Context, id string) error
	ListNotifications(ctx context.Context) ([]Notification, error)
	UnreadNotifications(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
