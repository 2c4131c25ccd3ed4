package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the admin dashboard snapshot over a trailing window.
// Revenue counts orders in PROCESSING, SHIPPED or DELIVERED; change
// fields compare against the window immediately before.
type Summary struct {
	WindowDays int

	Revenue       decimal.Decimal
	OrderCount    int
	AvgOrderValue decimal.Decimal

	// RevenueChangePct is nil when the previous window had no revenue.
	RevenueChangePct *decimal.Decimal
	// OrderCountChangePct is nil when the previous window had no orders.
	OrderCountChangePct *decimal.Decimal

	DailySales  []DailyPoint
	TopProducts []TopProduct
}

type DailyPoint struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int
}

type TopProduct struct {
	ProductID string
	Name      string
	UnitsSold int
	Revenue   decimal.Decimal
}
