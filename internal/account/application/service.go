package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quickhatch/storefront/internal/account/domain"
)

var ErrMissingAddressFields = errors.New("fullName, phone, street, city, state, postalCode and country are required")

type Service struct {
	log       *slog.Logger
	addresses AddressRepository
	wishlist  WishlistRepository
}

func NewService(log *slog.Logger, addresses AddressRepository, wishlist WishlistRepository) *Service {
	return &Service{log: log, addresses: addresses, wishlist: wishlist}
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

// CreateAddress saves a new delivery address. Marking it default demotes
// the user's previous default inside the repository transaction.
func (s *Service) CreateAddress(ctx context.Context, userID string, a domain.Address) (domain.Address, error) {
	if a.FullName == "" || a.Phone == "" || a.Street == "" || a.City == "" ||
		a.State == "" || a.PostalCode == "" || a.Country == "" {
		return domain.Address{}, ErrMissingAddressFields
	}

	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.UserID = userID
	a.CreatedAt = now
	a.UpdatedAt = now

	created, err := s.addresses.Create(ctx, a)
	if err != nil {
		return domain.Address{}, err
	}
	s.log.InfoContext(ctx, "address created",
		slog.String("user_id", userID), slog.String("address_id", created.ID))
	return created, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, patch domain.AddressPatch) (domain.Address, error) {
	return s.addresses.Update(ctx, userID, addressID, patch)
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return s.addresses.Delete(ctx, userID, addressID)
}

// UserAddress resolves an address for checkout: it must exist and
// belong to the caller.
func (s *Service) UserAddress(ctx context.Context, userID, addressID string) (domain.Address, error) {
	return s.addresses.GetByUser(ctx, userID, addressID)
}

func (s *Service) ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.wishlist.ListByUser(ctx, userID)
}

func (s *Service) RemoveWishlistItem(ctx context.Context, userID, itemID string) error {
	if err := s.wishlist.Delete(ctx, userID, itemID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "wishlist item removed",
		slog.String("user_id", userID), slog.String("item_id", itemID))
	return nil
}
