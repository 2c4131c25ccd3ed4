package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the catalog admin tooling; this core reads
// price/quantity/is_active and decrements quantity inside the checkout
// transaction.
type Product struct {
	ID        string
	Name      string
	SKU       string
	Slug      string
	Price     decimal.Decimal
	Quantity  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
