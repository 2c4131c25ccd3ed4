package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a user's pending selection. It is created lazily on first use
// and its items are deleted inside the checkout transaction.
type Cart struct {
	ID        string
	UserID    string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is one cart line. Product fields are a lookup-time view for
// display; checkout re-reads the product so prices are never trusted
// from here.
type Item struct {
	ID          string
	ProductID   string
	Quantity    int
	ProductName string
	ProductSKU  string
	UnitPrice   decimal.Decimal
	AddedAt     time.Time
}
