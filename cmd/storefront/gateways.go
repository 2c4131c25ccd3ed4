package main

import (
	"context"

	cartapp "github.com/quickhatch/storefront/internal/cart/application"
	orderapp "github.com/quickhatch/storefront/internal/order/application"
)

// cartGateway bridges the cart service into the checkout orchestrator's
// view of a cart: id plus bare product/quantity pairs.
type cartGateway struct {
	carts *cartapp.Service
}

func (g cartGateway) CartLines(ctx context.Context, userID string) (string, []orderapp.CartLine, error) {
	cartID, items, err := g.carts.Lines(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	lines := make([]orderapp.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, orderapp.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return cartID, lines, nil
}
