package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopfront/internal/domain/cart"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/session"
	"github.com/xenking/shopfront/internal/payment"
)

// --- Mock implementations ---

type mockCart struct {
	lines   []cart.Line
	cleared bool
}

func (m *mockCart) IsEmpty() bool      { return len(m.lines) == 0 }
func (m *mockCart) Lines() []cart.Line { return m.lines }

func (m *mockCart) Total(pct decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range m.lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	total := sum.Sub(sum.Mul(pct).Div(decimal.NewFromInt(100)))
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2)
}

func (m *mockCart) Clear(_ context.Context) error {
	m.cleared = true
	m.lines = nil
	return nil
}

type mockDiscounts struct {
	pct decimal.Decimal
}

func (m *mockDiscounts) Percentage() decimal.Decimal { return m.pct }

type mockSessions struct {
	identity *session.Identity
}

func (m *mockSessions) Current() (*session.Identity, bool) {
	if m.identity == nil {
		return nil, false
	}
	return m.identity, true
}

type mockBackend struct {
	intent    *PaymentIntent
	intentErr error

	mobileErr       error
	mobileAmount    decimal.Decimal
	mobileProvider  order.Provider
	mobilePhone     string
	mobileSubmitted bool

	created   *order.Order
	createErr error
	lastOrder *OrderRequest

	intentAmount   int64
	intentCurrency string
}

func (m *mockBackend) CreatePaymentIntent(_ context.Context, amountMinor int64, currency string) (*PaymentIntent, error) {
	m.intentAmount = amountMinor
	m.intentCurrency = currency
	return m.intent, m.intentErr
}

func (m *mockBackend) PayMobileMoney(_ context.Context, provider order.Provider, phone string, amount decimal.Decimal) error {
	m.mobileSubmitted = true
	m.mobileProvider = provider
	m.mobilePhone = phone
	m.mobileAmount = amount
	return m.mobileErr
}

func (m *mockBackend) CreateOrder(_ context.Context, req OrderRequest) (*order.Order, error) {
	m.lastOrder = &req
	return m.created, m.createErr
}

// --- Helpers ---

func validAddress() order.Address {
	return order.Address{
		Street:     "12 Bole Rd",
		City:       "Addis Ababa",
		State:      "AA",
		PostalCode: "1000",
		Country:    "ET",
	}
}

func filledCart() *mockCart {
	return &mockCart{lines: []cart.Line{
		{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("20.00")},
	}}
}

func signedIn() *mockSessions {
	return &mockSessions{identity: &session.Identity{UserID: "u1", Name: "Abebe", Role: "customer"}}
}

// atPaymentSelection drives a fresh flow up to the payment selection state.
func atPaymentSelection(t *testing.T, c *mockCart, backend *mockBackend, gw payment.CardGateway, pct string) *Flow {
	t.Helper()
	f := NewFlow(c, &mockDiscounts{pct: decimal.RequireFromString(pct)}, signedIn(), backend, gw)
	require.NoError(t, f.Begin())
	require.NoError(t, f.SubmitAddresses(validAddress(), order.Address{}, true))
	return f
}

// --- Tests ---

func TestFlow_BeginRequiresAuthentication(t *testing.T) {
	f := NewFlow(filledCart(), &mockDiscounts{}, &mockSessions{}, &mockBackend{}, &payment.MockGateway{})

	err := f.Begin()

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.IsType(t, StateCart{}, f.State())
}

func TestFlow_BeginRequiresNonEmptyCart(t *testing.T) {
	f := NewFlow(&mockCart{}, &mockDiscounts{}, signedIn(), &mockBackend{}, &payment.MockGateway{})

	err := f.Begin()

	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestFlow_Begin(t *testing.T) {
	f := NewFlow(filledCart(), &mockDiscounts{}, signedIn(), &mockBackend{}, &payment.MockGateway{})

	require.NoError(t, f.Begin())
	assert.IsType(t, StateAddressEntry{}, f.State())

	// Begin is not re-enterable.
	require.ErrorIs(t, f.Begin(), ErrInvalidTransition)
}

func TestFlow_SubmitAddressesAggregatesMissingFields(t *testing.T) {
	f := NewFlow(filledCart(), &mockDiscounts{}, signedIn(), &mockBackend{}, &payment.MockGateway{})
	require.NoError(t, f.Begin())

	shipping := validAddress()
	shipping.City = "  "
	shipping.Country = ""
	billing := order.Address{Street: "1 Main St"}

	err := f.SubmitAddresses(shipping, billing, false)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Missing, "shipping city")
	assert.Contains(t, vErr.Missing, "shipping country")
	assert.Contains(t, vErr.Missing, "billing city")
	assert.NotContains(t, vErr.Missing, "billing street")
	assert.Contains(t, err.Error(), "missing required fields: ")
	assert.IsType(t, StateAddressEntry{}, f.State())
}

func TestFlow_SubmitAddressesSameAsShippingSkipsBilling(t *testing.T) {
	f := NewFlow(filledCart(), &mockDiscounts{}, signedIn(), &mockBackend{}, &payment.MockGateway{})
	require.NoError(t, f.Begin())

	require.NoError(t, f.SubmitAddresses(validAddress(), order.Address{}, true))

	sel, ok := f.State().(StatePaymentSelection)
	require.True(t, ok)
	assert.Equal(t, validAddress(), sel.Billing)
	assert.Len(t, sel.PNR, 6)
	for _, r := range sel.PNR {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected PNR character %q", r)
	}
}

func TestFlow_SelectCardSizesIntentToDiscountedTotal(t *testing.T) {
	backend := &mockBackend{intent: &PaymentIntent{ID: "pi_1", ClientSecret: "cs_1"}}
	f := atPaymentSelection(t, filledCart(), backend, &payment.MockGateway{}, "10")

	require.NoError(t, f.SelectCard(context.Background()))

	// 40.00 subtotal at 10% off is 36.00, or 3600 minor units.
	assert.Equal(t, int64(3600), backend.intentAmount)
	assert.Equal(t, "ETB", backend.intentCurrency)

	sel, ok := f.State().(StatePaymentSelection)
	require.True(t, ok)
	assert.Equal(t, "pi_1", sel.IntentID)
	assert.Equal(t, "cs_1", sel.ClientSecret)
}

func TestFlow_ConfirmCardRequiresIntent(t *testing.T) {
	f := atPaymentSelection(t, filledCart(), &mockBackend{}, &payment.MockGateway{}, "0")

	_, err := f.ConfirmCard(context.Background())

	require.ErrorIs(t, err, ErrNoPaymentIntent)
}

func TestFlow_ConfirmCardRejectsUnfinishedPayment(t *testing.T) {
	backend := &mockBackend{intent: &PaymentIntent{ID: "pi_1", ClientSecret: "cs_1"}}
	gw := &payment.MockGateway{Status: "requires_action"}
	f := atPaymentSelection(t, filledCart(), backend, gw, "0")
	require.NoError(t, f.SelectCard(context.Background()))

	_, err := f.ConfirmCard(context.Background())

	require.ErrorIs(t, err, ErrPaymentNotComplete)
	assert.Nil(t, backend.lastOrder)
	assert.IsType(t, StatePaymentSelection{}, f.State())
}

func TestFlow_ConfirmCardCreatesOrder(t *testing.T) {
	c := filledCart()
	backend := &mockBackend{
		intent:  &PaymentIntent{ID: "pi_1", ClientSecret: "cs_1"},
		created: &order.Order{ID: "o1", PNR: "ABC123", Status: order.StatusPending},
	}
	gw := &payment.MockGateway{Last4: "4242"}
	f := atPaymentSelection(t, c, backend, gw, "10")
	require.NoError(t, f.SelectCard(context.Background()))

	created, err := f.ConfirmCard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "o1", created.ID)
	assert.Equal(t, []string{"cs_1"}, gw.Confirmed)

	req := backend.lastOrder
	require.NotNil(t, req)
	assert.Len(t, req.PNR, 6)
	assert.Equal(t, []order.Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, req.Items)
	assert.Equal(t, "36.00", req.Total.StringFixed(2))
	assert.Equal(t, order.MethodCard, req.Payment.Kind)
	require.NotNil(t, req.Payment.Card)
	assert.Equal(t, "4242", req.Payment.Card.Last4)
	assert.NotEmpty(t, req.IdempotencyKey)

	assert.True(t, c.cleared)
	assert.IsType(t, StateCompleted{}, f.State())
}

func TestFlow_SubmitMobileMoneyValidatesPhone(t *testing.T) {
	backend := &mockBackend{}
	f := atPaymentSelection(t, filledCart(), backend, &payment.MockGateway{}, "0")

	_, err := f.SubmitMobileMoney(context.Background(), order.ProviderTelebirr, "0712345678")

	var pErr *PhoneError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, order.ProviderTelebirr, pErr.Provider)
	assert.Equal(t, "09", pErr.Prefix)
	assert.False(t, backend.mobileSubmitted)
	assert.IsType(t, StatePaymentSelection{}, f.State())
}

func TestFlow_SubmitMobileMoneyCreatesOrder(t *testing.T) {
	c := filledCart()
	backend := &mockBackend{created: &order.Order{ID: "o2", Status: order.StatusPending}}
	f := atPaymentSelection(t, c, backend, &payment.MockGateway{}, "10")

	created, err := f.SubmitMobileMoney(context.Background(), order.ProviderMpesa, "0712345678")

	require.NoError(t, err)
	assert.Equal(t, "o2", created.ID)
	assert.Equal(t, order.ProviderMpesa, backend.mobileProvider)
	assert.Equal(t, "0712345678", backend.mobilePhone)
	assert.Equal(t, "36.00", backend.mobileAmount.StringFixed(2))

	req := backend.lastOrder
	require.NotNil(t, req)
	assert.Equal(t, order.MethodMobileMoney, req.Payment.Kind)
	require.NotNil(t, req.Payment.Mobile)
	assert.Equal(t, order.ProviderMpesa, req.Payment.Mobile.Provider)

	assert.True(t, c.cleared)
}

func TestFlow_OrderFailureKeepsSelectionState(t *testing.T) {
	c := filledCart()
	backend := &mockBackend{createErr: errors.New("order rejected")}
	f := atPaymentSelection(t, c, backend, &payment.MockGateway{}, "0")
	before, _ := f.State().(StatePaymentSelection)

	_, err := f.SubmitMobileMoney(context.Background(), order.ProviderTelebirr, "0912345678")

	require.Error(t, err)
	assert.False(t, c.cleared)
	after, ok := f.State().(StatePaymentSelection)
	require.True(t, ok)
	assert.Equal(t, before.PNR, after.PNR)
}

func TestFlow_Abandon(t *testing.T) {
	f := atPaymentSelection(t, filledCart(), &mockBackend{}, &payment.MockGateway{}, "0")

	require.NoError(t, f.Abandon())
	assert.IsType(t, StateCart{}, f.State())
}

func TestFlow_AbandonAfterCompletionRejected(t *testing.T) {
	c := filledCart()
	backend := &mockBackend{created: &order.Order{ID: "o3"}}
	f := atPaymentSelection(t, c, backend, &payment.MockGateway{}, "0")
	_, err := f.SubmitMobileMoney(context.Background(), order.ProviderTelebirr, "0912345678")
	require.NoError(t, err)

	require.ErrorIs(t, f.Abandon(), ErrInvalidTransition)

	f.Reset()
	assert.IsType(t, StateCart{}, f.State())
}
