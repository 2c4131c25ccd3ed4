package application

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is no longer available")
	ErrNotEnoughStock  = errors.New("requested quantity exceeds available stock")
	ErrItemNotFound    = errors.New("cart item not found")
)
