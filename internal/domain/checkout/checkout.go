// Package checkout orchestrates the storefront's most stateful flow:
// address collection, booking-reference generation, payment method
// selection, payment confirmation, and order creation. The flow state is a
// tagged union with explicit transition methods, so a payment cannot be
// confirmed without a generated PNR by construction.
package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/cart"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/session"
	"github.com/xenking/shopfront/internal/payment"
)

// Sentinel errors for flow transitions.
var (
	ErrNotAuthenticated   = errors.New("sign in to proceed to checkout")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrNoPaymentIntent    = errors.New("no payment authorization requested")
	ErrPaymentNotComplete = errors.New("card payment was not completed")
)

// defaultCurrency sizes payment authorizations. Minor units are cents of
// this currency.
const defaultCurrency = "ETB"

// State is the tagged union of checkout flow states.
type State interface{ isState() }

// StateCart is the resting state: the user is still shopping.
type StateCart struct{}

// StateAddressEntry means the user is filling in shipping/billing addresses.
type StateAddressEntry struct{}

// StatePaymentSelection carries everything fixed by the address step: the
// validated addresses and the PNR, which exists only in this state and in
// the completed order.
type StatePaymentSelection struct {
	PNR          string
	Shipping     order.Address
	Billing      order.Address
	IntentID     string
	ClientSecret string
}

// StateCompleted carries the created order for the confirmation view.
type StateCompleted struct {
	Order *order.Order
}

func (StateCart) isState()             {}
func (StateAddressEntry) isState()     {}
func (StatePaymentSelection) isState() {}
func (StateCompleted) isState()        {}

// Cart is the slice of the cart store the flow needs.
type Cart interface {
	IsEmpty() bool
	Lines() []cart.Line
	Total(pct decimal.Decimal) decimal.Decimal
	Clear(ctx context.Context) error
}

// Discounts yields the active discount percentage.
type Discounts interface {
	Percentage() decimal.Decimal
}

// Sessions yields the current authenticated identity.
type Sessions interface {
	Current() (*session.Identity, bool)
}

// PaymentIntent is a server-issued card payment authorization handle.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// OrderRequest is the order-creation payload. Items carry product id and
// quantity only; the backend computes line pricing. Total is the
// client-computed value and is sent as is.
type OrderRequest struct {
	PNR            string
	Items          []order.Item
	Total          decimal.Decimal
	Shipping       order.Address
	Billing        order.Address
	Payment        order.PaymentMethod
	IdempotencyKey string
}

// Backend defines the remote calls the flow makes.
type Backend interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*PaymentIntent, error)
	PayMobileMoney(ctx context.Context, provider order.Provider, phone string, amount decimal.Decimal) error
	CreateOrder(ctx context.Context, req OrderRequest) (*order.Order, error)
}

// Flow is the checkout state machine. All methods are safe for concurrent
// use, though the flow is driven by a single user interaction at a time.
type Flow struct {
	cart      Cart
	discounts Discounts
	sessions  Sessions
	backend   Backend
	card      payment.CardGateway

	mu    sync.Mutex
	state State
}

// NewFlow creates a Flow in the cart state.
func NewFlow(cart Cart, discounts Discounts, sessions Sessions, backend Backend, card payment.CardGateway) *Flow {
	return &Flow{
		cart:      cart,
		discounts: discounts,
		sessions:  sessions,
		backend:   backend,
		card:      card,
		state:     StateCart{},
	}
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Total is the client-computed order total under the active discount.
func (f *Flow) Total() decimal.Decimal {
	return f.cart.Total(f.discounts.Percentage())
}

// Begin moves Cart -> AddressEntry. It requires an authenticated identity
// and a non-empty cart.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.state.(StateCart); !ok {
		return ErrInvalidTransition
	}
	if _, ok := f.sessions.Current(); !ok {
		return ErrNotAuthenticated
	}
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}
	f.state = StateAddressEntry{}
	return nil
}

// SubmitAddresses validates the addresses and moves AddressEntry ->
// PaymentSelection. On success billing is copied from shipping when flagged,
// and a fresh PNR is generated and fixed for the remainder of the flow.
func (f *Flow) SubmitAddresses(shipping, billing order.Address, sameAsShipping bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.state.(StateAddressEntry); !ok {
		return ErrInvalidTransition
	}
	if err := validateAddresses(shipping, billing, sameAsShipping); err != nil {
		return err
	}
	if sameAsShipping {
		billing = shipping
	}
	f.state = StatePaymentSelection{
		PNR:      GeneratePNR(),
		Shipping: shipping,
		Billing:  billing,
	}
	return nil
}

// SelectCard requests a payment authorization handle sized to the current
// total in minor currency units and holds its client secret in the state.
func (f *Flow) SelectCard(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sel, ok := f.state.(StatePaymentSelection)
	if !ok {
		return ErrInvalidTransition
	}

	amountMinor := f.cart.Total(f.discounts.Percentage()).Shift(2).IntPart()
	intent, err := f.backend.CreatePaymentIntent(ctx, amountMinor, defaultCurrency)
	if err != nil {
		return errors.Wrap(err, "create payment intent")
	}

	sel.IntentID = intent.ID
	sel.ClientSecret = intent.ClientSecret
	f.state = sel
	return nil
}

// ConfirmCard confirms the card payment with the held authorization handle
// and, only on a succeeded result, creates the order. On any failure the
// flow stays in PaymentSelection and nothing is cleared.
func (f *Flow) ConfirmCard(ctx context.Context) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sel, ok := f.state.(StatePaymentSelection)
	if !ok {
		return nil, ErrInvalidTransition
	}
	if sel.ClientSecret == "" {
		return nil, ErrNoPaymentIntent
	}

	result, err := f.card.Confirm(ctx, sel.ClientSecret)
	if err != nil {
		return nil, errors.Wrap(err, "confirm card payment")
	}
	if result.Status != payment.StatusSucceeded {
		return nil, ErrPaymentNotComplete
	}

	return f.createOrder(ctx, sel, order.PaymentMethod{
		Kind: order.MethodCard,
		Card: &order.CardPayment{Last4: result.Last4},
	})
}

// SubmitMobileMoney validates the phone for the chosen provider, submits
// the provider payment, then immediately creates the order.
func (f *Flow) SubmitMobileMoney(ctx context.Context, provider order.Provider, phone string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sel, ok := f.state.(StatePaymentSelection)
	if !ok {
		return nil, ErrInvalidTransition
	}
	if err := ValidatePhone(provider, phone); err != nil {
		return nil, err
	}

	amount := f.cart.Total(f.discounts.Percentage())
	if err := f.backend.PayMobileMoney(ctx, provider, phone, amount); err != nil {
		return nil, errors.Wrap(err, "submit mobile-money payment")
	}

	return f.createOrder(ctx, sel, order.PaymentMethod{
		Kind:   order.MethodMobileMoney,
		Mobile: &order.MobileMoneyPayment{Provider: provider, Phone: phone},
	})
}

// createOrder builds the order payload from the selection state and submits
// it. Success clears the cart and moves to Completed; failure keeps the
// selection state intact. Callers hold f.mu.
func (f *Flow) createOrder(ctx context.Context, sel StatePaymentSelection, method order.PaymentMethod) (*order.Order, error) {
	lines := f.cart.Lines()
	items := make([]order.Item, len(lines))
	for i, line := range lines {
		items[i] = order.Item{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	created, err := f.backend.CreateOrder(ctx, OrderRequest{
		PNR:            sel.PNR,
		Items:          items,
		Total:          f.cart.Total(f.discounts.Percentage()),
		Shipping:       sel.Shipping,
		Billing:        sel.Billing,
		Payment:        method,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// The order exists remotely; a failed cart clear must not roll the flow
	// back, it will reconcile on the next cart reload.
	_ = f.cart.Clear(ctx)

	f.state = StateCompleted{Order: created}
	return created, nil
}

// Abandon returns the flow to the cart state from any point before order
// creation succeeded. Nothing has been persisted remotely by then.
func (f *Flow) Abandon() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.state.(StateCompleted); ok {
		return ErrInvalidTransition
	}
	f.state = StateCart{}
	return nil
}

// Reset arms the flow for a new checkout after a completed order.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.state = StateCart{}
	f.mu.Unlock()
}
