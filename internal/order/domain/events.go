package domain

import "github.com/shopspring/decimal"

// Events written to the transactional outbox alongside the order rows.

type OrderPlaced struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      string          `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	Items       []PlacedItem    `json:"items"`
}

type PlacedItem struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCancelled struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id"`
}
