// Package admin implements the privileged console surface: CRUD over
// products, users, bundles and discount codes, plus moderation actions and
// a chat relay keyed by user id. Every operation validates required fields
// locally, issues the request, and reconciles the local list on success
// (append, replace, or filter-out); a failure leaves the list untouched.
package admin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
)

// User is a managed storefront account.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Bundle is a backend-defined group of products sold together at a
// discount. The client treats it as a priced entity plus constituent ids.
type Bundle struct {
	ID          string
	Name        string
	Description string
	ProductIDs  []string
	Price       decimal.Decimal
	Discount    decimal.Decimal
}

// DiscountCode is a managed promo code.
type DiscountCode struct {
	ID         string
	Code       string
	Percentage decimal.Decimal
	ExpiresAt  *time.Time
}

// Review is a product review awaiting moderation.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	Approved  bool
}

// ReturnRequest is a customer return awaiting a decision.
type ReturnRequest struct {
	ID      string
	OrderID string
	Reason  string
	Status  string
}

// Backend defines the privileged endpoints the console uses.
type Backend interface {
	ListProductsAdmin(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	UpdateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, u User) (*User, error)
	DeleteUser(ctx context.Context, id string) error

	ListBundles(ctx context.Context) ([]Bundle, error)
	CreateBundle(ctx context.Context, b Bundle) (*Bundle, error)
	UpdateBundle(ctx context.Context, b Bundle) (*Bundle, error)
	DeleteBundle(ctx context.Context, id string) error

	ListDiscountCodes(ctx context.Context) ([]DiscountCode, error)
	CreateDiscountCode(ctx context.Context, d DiscountCode) (*DiscountCode, error)
	UpdateDiscountCode(ctx context.Context, d DiscountCode) (*DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, id string) error

	ListPendingReviews(ctx context.Context) ([]Review, error)
	ApproveReview(ctx context.Context, id string) error

	ListReturnRequests(ctx context.Context) ([]ReturnRequest, error)
	ApproveReturn(ctx context.Context, id string) error
	RejectReturn(ctx context.Context, id string) error

	UpdateOrderStatus(ctx context.Context, id string, status order.Status) error
	ListAllOrders(ctx context.Context) ([]order.Order, error)
}
