package application

import (
	"context"

	"github.com/quickhatch/storefront/internal/cart/domain"
)

// CartRepository persists carts and their items. A user has at most one
// cart; GetOrCreate materialises an empty one on first touch.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}

// ProductReader is the slice of the catalog the cart needs when adding
// an item: existence, active flag and available stock.
type ProductReader interface {
	ProductForSale(ctx context.Context, productID string) (name string, active bool, stock int, err error)
}
