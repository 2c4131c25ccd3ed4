package application

import (
	"context"

	accountdomain "github.com/quickhatch/storefront/internal/account/domain"
	catalogdomain "github.com/quickhatch/storefront/internal/catalog/domain"
	"github.com/quickhatch/storefront/internal/order/domain"
)

// CartLine is the minimal cart view the orchestrator needs; prices are
// deliberately absent because checkout re-reads the product.
type CartLine struct {
	ProductID string
	Quantity  int
}

type OrderRepository interface {
	// OrderNumberExists is the pre-insert collision check. A store error
	// here fails the whole checkout.
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	// CreateWithOutbox persists the order header and item snapshots,
	// decrements stock, clears the cart and writes the outbox row, all
	// in one transaction. Returns ErrDuplicateOrderNumber on a unique
	// violation and *StockError when a decrement guard rejects.
	CreateWithOutbox(ctx context.Context, o domain.Order, cartID string, eventType string, payload []byte) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByUser(ctx context.Context, userID, orderID string) (domain.Order, error)
	// CancelWithOutbox transitions the order to CANCELLED, restores the
	// decremented stock and writes the outbox row in one transaction.
	// The cancellable check is re-applied inside the transaction.
	CancelWithOutbox(ctx context.Context, userID, orderID string, eventType string, payload []byte) (domain.Order, error)
}

type CartGateway interface {
	// CartLines returns the user's cart id and lines; an absent cart
	// comes back as an empty slice.
	CartLines(ctx context.Context, userID string) (string, []CartLine, error)
}

type ProductGateway interface {
	// Product is the fresh read used for stock validation and pricing.
	Product(ctx context.Context, id string) (catalogdomain.Product, error)
}

type AddressGateway interface {
	// UserAddress resolves an address scoped to its owner;
	// accountdomain.ErrAddressNotFound covers both missing and foreign.
	UserAddress(ctx context.Context, userID, addressID string) (accountdomain.Address, error)
}
