package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdomain "github.com/quickhatch/storefront/internal/account/domain"
	catalogdomain "github.com/quickhatch/storefront/internal/catalog/domain"
	"github.com/quickhatch/storefront/internal/order/domain"
)

func testPricing() domain.PricingConfig {
	return domain.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFlatFee:       decimal.RequireFromString("5.99"),
	}
}

type fixture struct {
	svc       *Service
	repo      *fakeRepo
	carts     *fakeCarts
	products  *fakeProducts
	addresses *fakeAddresses
}

func newFixture() *fixture {
	repo := newFakeRepo()
	carts := &fakeCarts{
		cartID: "cart-1",
		lines: []CartLine{
			{ProductID: "p-shirt", Quantity: 1},
			{ProductID: "p-mug", Quantity: 2},
		},
	}
	products := &fakeProducts{products: map[string]catalogdomain.Product{
		"p-shirt": {ID: "p-shirt", Name: "Linen Shirt", SKU: "SHIRT-1", Price: decimal.NewFromInt(30), Quantity: 5, IsActive: true},
		"p-mug":   {ID: "p-mug", Name: "Stone Mug", SKU: "MUG-1", Price: decimal.NewFromInt(10), Quantity: 9, IsActive: true},
	}}
	addresses := &fakeAddresses{addr: accountdomain.Address{
		ID: "addr-1", UserID: "u-1", FullName: "Asha Rao", Phone: "98765 43210",
		Street: "12 Hill Rd", City: "Mumbai", State: "MH", PostalCode: "400050", Country: "IN",
	}}
	log := slog.New(slog.DiscardHandler)
	return &fixture{
		svc:       NewService(log, repo, carts, products, addresses, testPricing(), "QH"),
		repo:      repo,
		carts:     carts,
		products:  products,
		addresses: addresses,
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{AddressID: "addr-1", PaymentMethod: "CARD"}
}

func TestPlaceOrderMissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", PlaceOrderInput{PaymentMethod: "CARD"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.PlaceOrder(context.Background(), "u-1", PlaceOrderInput{AddressID: "addr-1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	assert.Empty(t, f.repo.created)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", PlaceOrderInput{AddressID: "addr-1", PaymentMethod: "BARTER"})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture()
	f.carts.lines = nil

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.repo.created)
}

func TestPlaceOrderForeignAddress(t *testing.T) {
	f := newFixture()
	f.addresses.err = accountdomain.ErrAddressNotFound

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	f := newFixture()
	p := f.products.products["p-shirt"]
	p.IsActive = false
	f.products.products["p-shirt"] = p

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Linen Shirt", stockErr.ProductName)
	assert.True(t, stockErr.Unavailable)
}

func TestPlaceOrderInsufficientStockStopsAtFirstFailure(t *testing.T) {
	f := newFixture()
	// Both lines under-stocked; only the first is reported.
	shirt := f.products.products["p-shirt"]
	shirt.Quantity = 0
	f.products.products["p-shirt"] = shirt
	mug := f.products.products["p-mug"]
	mug.Quantity = 0
	f.products.products["p-mug"] = mug

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Linen Shirt", stockErr.ProductName)
	assert.False(t, stockErr.Unavailable)
	assert.Empty(t, f.repo.created, "no partial state on validation failure")
}

func TestPlaceOrderComputesSnapshotTotals(t *testing.T) {
	f := newFixture()

	o, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	require.NoError(t, err)

	// 1 x $30 + 2 x $10 = $50: at the free-shipping threshold.
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(50)), "subtotal = %s", o.Subtotal)
	assert.True(t, o.ShippingCost.IsZero())
	assert.True(t, o.Tax.Equal(decimal.NewFromInt(9)), "tax = %s", o.Tax)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(59)), "total = %s", o.Total)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Linen Shirt", o.Items[0].Name)
	assert.Equal(t, "SHIRT-1", o.Items[0].SKU)
	assert.True(t, o.Items[0].Price.Equal(decimal.NewFromInt(30)))
	assert.True(t, o.Items[1].Total.Equal(decimal.NewFromInt(20)))

	// Address snapshot copied onto the order.
	assert.Equal(t, "Asha Rao", o.ShipTo.FullName)
	assert.Equal(t, "400050", o.ShipTo.PostalCode)

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, "cart-1", f.repo.createdCartID)
	assert.Equal(t, []string{"OrderPlaced"}, f.repo.eventTypes)
}

func TestPlaceOrderInitialStatusByMethod(t *testing.T) {
	f := newFixture()
	o, err := f.svc.PlaceOrder(context.Background(), "u-1", PlaceOrderInput{AddressID: "addr-1", PaymentMethod: "CASH_ON_DELIVERY"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, o.Status)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)

	f = newFixture()
	o, err = f.svc.PlaceOrder(context.Background(), "u-1", PlaceOrderInput{AddressID: "addr-1", PaymentMethod: "STRIPE"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, o.Status)
}

func TestPlaceOrderRegeneratesOnPrecheckCollision(t *testing.T) {
	f := newFixture()
	numbers := []string{"QH-20250101-00001", "QH-20250101-00002"}
	f.svc.newNumber = func() string {
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n
	}
	f.repo.existing["QH-20250101-00001"] = true

	o, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "QH-20250101-00002", o.OrderNumber)
}

func TestPlaceOrderRegeneratesOnCommitCollision(t *testing.T) {
	f := newFixture()
	// Pre-check passes, but the unique constraint fires at commit once.
	f.repo.createErrs = []error{ErrDuplicateOrderNumber}

	o, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	require.NoError(t, err)
	require.Len(t, f.repo.created, 1)
	assert.NotEmpty(t, o.OrderNumber)
}

func TestPlaceOrderFailsWhenNumberCheckUnavailable(t *testing.T) {
	f := newFixture()
	f.repo.existsErr = errors.New("connection refused")

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	require.Error(t, err)
	assert.Empty(t, f.repo.created)
}

func TestPlaceOrderGivesUpAfterRetryCap(t *testing.T) {
	f := newFixture()
	f.svc.newNumber = func() string { return "QH-20250101-77777" }
	f.repo.existing["QH-20250101-77777"] = true

	_, err := f.svc.PlaceOrder(context.Background(), "u-1", validInput())
	assert.ErrorIs(t, err, ErrOrderNumberExhausted)
}

func TestCancelOrderRejectsShipped(t *testing.T) {
	f := newFixture()
	f.repo.orders["o-1"] = domain.Order{ID: "o-1", UserID: "u-1", Status: domain.StatusShipped}

	_, err := f.svc.CancelOrder(context.Background(), "u-1", "o-1")
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Equal(t, domain.StatusShipped, f.repo.orders["o-1"].Status, "status unchanged")
	assert.Empty(t, f.repo.cancelled)
}

func TestCancelOrderScopedToOwner(t *testing.T) {
	f := newFixture()
	f.repo.orders["o-1"] = domain.Order{ID: "o-1", UserID: "someone-else", Status: domain.StatusPending}

	_, err := f.svc.CancelOrder(context.Background(), "u-1", "o-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOrderTransitionsAndEmitsEvent(t *testing.T) {
	f := newFixture()
	f.repo.orders["o-1"] = domain.Order{ID: "o-1", OrderNumber: "QH-20250101-00009", UserID: "u-1", Status: domain.StatusProcessing}

	o, err := f.svc.CancelOrder(context.Background(), "u-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)
	assert.Equal(t, []string{"o-1"}, f.repo.cancelled)
	assert.Equal(t, []string{"OrderCancelled"}, f.repo.eventTypes)
}

func TestGetOrderConflatesMissingAndForeign(t *testing.T) {
	f := newFixture()
	f.repo.orders["o-1"] = domain.Order{ID: "o-1", UserID: "someone-else", Status: domain.StatusPending}

	_, err := f.svc.GetOrder(context.Background(), "u-1", "o-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.GetOrder(context.Background(), "u-1", "o-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
