package application

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields: addressId or paymentMethod absent from the request.
	ErrMissingFields = errors.New("address and payment method are required")
	// ErrInvalidPaymentMethod: paymentMethod outside the supported set.
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	// ErrEmptyCart: no cart or no cart items for the user.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidAddress: address missing or owned by another user. One
	// error for both so nothing leaks about other tenants' addresses.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrOrderNotFound: order missing or owned by another user, same
	// conflation as ErrInvalidAddress.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotCancellable: the order left the cancellable window.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	// ErrDuplicateOrderNumber is surfaced by the repository when the
	// unique constraint fires at commit; the orchestrator regenerates.
	ErrDuplicateOrderNumber = errors.New("order number already taken")
	// ErrOrderNumberExhausted: regeneration cap hit, checkout fails.
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
)

// StockError names the product that failed stock validation. Validation
// stops at the first failing cart line.
type StockError struct {
	ProductName string
	Unavailable bool
}

func (e *StockError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("%s is no longer available", e.ProductName)
	}
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
