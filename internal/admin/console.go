package admin

import (
	"context"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
)

var oneHundred = decimal.NewFromInt(100)

// Console holds the admin screens' list state and applies the
// request-then-reconcile contract to every operation.
type Console struct {
	backend Backend

	mu             sync.RWMutex
	products       []product.Product
	users          []User
	bundles        []Bundle
	discounts      []DiscountCode
	pendingReviews []Review
	returns        []ReturnRequest
}

// NewConsole creates a Console with empty lists.
func NewConsole(backend Backend) *Console {
	return &Console{backend: backend}
}

// Load fetches every console list from the backend.
func (c *Console) Load(ctx context.Context) error {
	products, err := c.backend.ListProductsAdmin(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		return errors.Wrap(err, "load users")
	}
	bundles, err := c.backend.ListBundles(ctx)
	if err != nil {
		return errors.Wrap(err, "load bundles")
	}
	discounts, err := c.backend.ListDiscountCodes(ctx)
	if err != nil {
		return errors.Wrap(err, "load discount codes")
	}
	reviews, err := c.backend.ListPendingReviews(ctx)
	if err != nil {
		return errors.Wrap(err, "load pending reviews")
	}
	returns, err := c.backend.ListReturnRequests(ctx)
	if err != nil {
		return errors.Wrap(err, "load return requests")
	}

	c.mu.Lock()
	c.products = products
	c.users = users
	c.bundles = bundles
	c.discounts = discounts
	c.pendingReviews = reviews
	c.returns = returns
	c.mu.Unlock()
	return nil
}

// Products returns the current product list.
func (c *Console) Products() []product.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]product.Product, len(c.products))
	copy(out, c.products)
	return out
}

// CreateProduct validates, creates remotely, and appends on success.
func (c *Console) CreateProduct(ctx context.Context, p product.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	created, err := c.backend.CreateProduct(ctx, p)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.products = append(c.products, *created)
	c.mu.Unlock()
	return nil
}

// UpdateProduct validates, updates remotely, and replaces on success.
func (c *Console) UpdateProduct(ctx context.Context, p product.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	updated, err := c.backend.UpdateProduct(ctx, p)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.products {
		if c.products[i].ID == updated.ID {
			c.products[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// DeleteProduct deletes remotely and filters the local list on success.
func (c *Console) DeleteProduct(ctx context.Context, id string) error {
	if err := c.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.products = filterOut(c.products, func(p product.Product) bool { return p.ID == id })
	c.mu.Unlock()
	return nil
}

// Users returns the current user list.
func (c *Console) Users() []User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]User, len(c.users))
	copy(out, c.users)
	return out
}

// CreateUser validates, creates remotely, and appends on success.
func (c *Console) CreateUser(ctx context.Context, u User) error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return errors.New("name and email are required")
	}
	created, err := c.backend.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.users = append(c.users, *created)
	c.mu.Unlock()
	return nil
}

// UpdateUser updates remotely and replaces on success.
func (c *Console) UpdateUser(ctx context.Context, u User) error {
	updated, err := c.backend.UpdateUser(ctx, u)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.users {
		if c.users[i].ID == updated.ID {
			c.users[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// DeleteUser deletes remotely and filters the local list on success.
func (c *Console) DeleteUser(ctx context.Context, id string) error {
	if err := c.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.users = filterOut(c.users, func(u User) bool { return u.ID == id })
	c.mu.Unlock()
	return nil
}

// Bundles returns the current bundle list.
func (c *Console) Bundles() []Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Bundle, len(c.bundles))
	copy(out, c.bundles)
	return out
}

// CreateBundle validates, creates remotely, and appends on success.
func (c *Console) CreateBundle(ctx context.Context, b Bundle) error {
	if err := ValidateBundle(b); err != nil {
		return err
	}
	created, err := c.backend.CreateBundle(ctx, b)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.bundles = append(c.bundles, *created)
	c.mu.Unlock()
	return nil
}

// UpdateBundle validates, updates remotely, and replaces on success.
func (c *Console) UpdateBundle(ctx context.Context, b Bundle) error {
	if err := ValidateBundle(b); err != nil {
		return err
	}
	updated, err := c.backend.UpdateBundle(ctx, b)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.bundles {
		if c.bundles[i].ID == updated.ID {
			c.bundles[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// DeleteBundle deletes remotely and filters the local list on success.
func (c *Console) DeleteBundle(ctx context.Context, id string) error {
	if err := c.backend.DeleteBundle(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.bundles = filterOut(c.bundles, func(b Bundle) bool { return b.ID == id })
	c.mu.Unlock()
	return nil
}

// DiscountCodes returns the current discount code list.
func (c *Console) DiscountCodes() []DiscountCode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]DiscountCode, len(c.discounts))
	copy(out, c.discounts)
	return out
}

// CreateDiscountCode validates, creates remotely, and appends on success.
func (c *Console) CreateDiscountCode(ctx context.Context, d DiscountCode) error {
	if err := ValidateDiscountCode(d); err != nil {
		return err
	}
	created, err := c.backend.CreateDiscountCode(ctx, d)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.discounts = append(c.discounts, *created)
	c.mu.Unlock()
	return nil
}

// UpdateDiscountCode validates, updates remotely, and replaces on success.
func (c *Console) UpdateDiscountCode(ctx context.Context, d DiscountCode) error {
	if err := ValidateDiscountCode(d); err != nil {
		return err
	}
	updated, err := c.backend.UpdateDiscountCode(ctx, d)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.discounts {
		if c.discounts[i].ID == updated.ID {
			c.discounts[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// DeleteDiscountCode deletes remotely and filters the local list on success.
func (c *Console) DeleteDiscountCode(ctx context.Context, id string) error {
	if err := c.backend.DeleteDiscountCode(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.discounts = filterOut(c.discounts, func(d DiscountCode) bool { return d.ID == id })
	c.mu.Unlock()
	return nil
}

// PendingReviews returns the reviews awaiting moderation.
func (c *Console) PendingReviews() []Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Review, len(c.pendingReviews))
	copy(out, c.pendingReviews)
	return out
}

// ApproveReview approves remotely; on success the review leaves the pending
// list without a refetch.
func (c *Console) ApproveReview(ctx context.Context, id string) error {
	if err := c.backend.ApproveReview(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.pendingReviews = filterOut(c.pendingReviews, func(r Review) bool { return r.ID == id })
	c.mu.Unlock()
	return nil
}

// ReturnRequests returns the returns awaiting a decision.
func (c *Console) ReturnRequests() []ReturnRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ReturnRequest, len(c.returns))
	copy(out, c.returns)
	return out
}

// ApproveReturn approves remotely and filters the local list on success.
func (c *Console) ApproveReturn(ctx context.Context, id string) error {
	if err := c.backend.ApproveReturn(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.returns = filterOut(c.returns, func(r ReturnRequest) bool { return r.ID == id })
	c.mu.Unlock()
	return nil
}

// RejectReturn rejects remotely and filters the local list on success.
func (c *Console) RejectReturn(ctx context.Context, id string) error {
	if err := c.backend.RejectReturn(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.returns = filterOut(c.returns, func(r ReturnRequest) bool { return r.ID == id })
	c.mu.Unlock()
	return nil
}

// UpdateOrderStatus requests a status transition for an order.
func (c *Console) UpdateOrderStatus(ctx context.Context, id string, status order.Status) error {
	return c.backend.UpdateOrderStatus(ctx, id, status)
}

// validateProduct mirrors the product creation contract.
func validateProduct(p product.Product) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if !p.Price.IsPositive() {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateBundle mirrors the bundle creation contract: name, description,
// at least one product, and a discount within [0,100].
func ValidateBundle(b Bundle) error {
	var missing []string
	if strings.TrimSpace(b.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.Description) == "" {
		missing = append(missing, "description")
	}
	if len(b.ProductIDs) == 0 {
		missing = append(missing, "products")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if b.Discount.IsNegative() || b.Discount.GreaterThan(oneHundred) {
		return errors.New("discount must be between 0 and 100")
	}
	return nil
}

// ValidateDiscountCode mirrors the discount code creation contract.
func ValidateDiscountCode(d DiscountCode) error {
	if strings.TrimSpace(d.Code) == "" {
		return errors.New("code is required")
	}
	if d.Percentage.IsNegative() || d.Percentage.GreaterThan(oneHundred) {
		return errors.New("percentage must be between 0 and 100")
	}
	return nil
}

func filterOut[T any](items []T, drop func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
