package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCard           PaymentMethod = "CARD"
	PaymentStripe         PaymentMethod = "STRIPE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentCard, PaymentStripe:
		return true
	}
	return false
}

// InitialStatus returns the order/payment status pair a new order starts
// in. Cash on delivery skips payment confirmation, so the order is
// confirmed immediately; everything else waits for the gateway.
func InitialStatus(m PaymentMethod) (Status, PaymentStatus) {
	if m == PaymentCashOnDelivery {
		return StatusConfirmed, PaymentPending
	}
	return StatusPending, PaymentPending
}

// Order is the durable record of a completed checkout. The financial
// fields and item snapshots are fixed at creation time; only the status
// pair mutates afterwards.
type Order struct {
	ID            string
	OrderNumber   string
	UserID        string
	AddressID     string
	ShipTo        ShipTo
	PaymentMethod PaymentMethod
	Status        Status
	PaymentStatus PaymentStatus
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	ShippingCost  decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	Items         []OrderItem
	Shipment      *Shipment
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem snapshots one product line at checkout. Name, SKU and price
// are copied from the product so later catalog edits cannot rewrite
// order history.
type OrderItem struct {
	ID        string
	ProductID string
	Name      string
	SKU       string
	Quantity  int
	Price     decimal.Decimal
	Total     decimal.Decimal
}

// ShipTo is the delivery address copied onto the order at checkout.
// Editing or deleting the source address later leaves it untouched.
type ShipTo struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Shipment is populated by the external fulfillment process; this core
// only reads it alongside the order.
type Shipment struct {
	ID             string
	Carrier        string
	TrackingNumber string
	Status         ShipmentStatus
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
}

// CheckoutLine is a fresh read of one cart line at checkout time:
// current product identity, current price, requested quantity.
type CheckoutLine struct {
	ProductID string
	Name      string
	SKU       string
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewOrder assembles the order aggregate from freshly priced checkout
// lines. Line totals are computed here, once.
func NewOrder(userID, orderNumber string, addressID string, shipTo ShipTo, method PaymentMethod, notes string, lines []CheckoutLine, totals Totals) Order {
	status, payStatus := InitialStatus(method)
	now := time.Now().UTC()

	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ID:        uuid.NewString(),
			ProductID: l.ProductID,
			Name:      l.Name,
			SKU:       l.SKU,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			Total:     l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	return Order{
		ID:            uuid.NewString(),
		OrderNumber:   orderNumber,
		UserID:        userID,
		AddressID:     addressID,
		ShipTo:        shipTo,
		PaymentMethod: method,
		Status:        status,
		PaymentStatus: payStatus,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		ShippingCost:  totals.ShippingCost,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Notes:         notes,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
