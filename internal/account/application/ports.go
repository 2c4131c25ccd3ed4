package application

import (
	"context"

	"github.com/quickhatch/storefront/internal/account/domain"
)

type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	GetByUser(ctx context.Context, userID, addressID string) (domain.Address, error)
	Create(ctx context.Context, a domain.Address) (domain.Address, error)
	Update(ctx context.Context, userID, addressID string, patch domain.AddressPatch) (domain.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Delete(ctx context.Context, userID, itemID string) error
}
