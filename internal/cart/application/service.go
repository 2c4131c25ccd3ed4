package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quickhatch/storefront/internal/cart/domain"
	catalogdomain "github.com/quickhatch/storefront/internal/catalog/domain"
)

type Service struct {
	log      *slog.Logger
	repo     CartRepository
	products ProductReader
}

func NewService(log *slog.Logger, repo CartRepository, products ProductReader) *Service {
	return &Service{log: log, repo: repo, products: products}
}

// GetCart returns the user's cart, creating an empty one on first use.
func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// AddItem puts quantity units of a product into the user's cart. Adding
// a product already present merges into the existing line. Stock is
// checked against the requested quantity here for early feedback; the
// authoritative check happens again at checkout.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	_, active, stock, err := s.products.ProductForSale(ctx, productID)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrProductInactive
	}
	if stock < quantity {
		return nil, ErrNotEnoughStock
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity))

	return s.repo.GetOrCreate(ctx, userID)
}

// UpdateItem sets an item's quantity. Quantity zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		err = s.repo.RemoveItem(ctx, cart.ID, itemID)
	} else {
		err = s.repo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

// RemoveItem deletes a line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

// Lines exposes the cart's contents to other contexts as plain
// product/quantity pairs along with the cart id.
func (s *Service) Lines(ctx context.Context, userID string) (string, []domain.Item, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return cart.ID, cart.Items, nil
}
