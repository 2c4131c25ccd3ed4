package application

import (
	"context"
	"log/slog"

	"github.com/quickhatch/storefront/internal/catalog/domain"
)

type ProductRepository interface {
	GetByID(ctx context.Context, productID string) (domain.Product, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Product, error)
}

type ReviewRepository interface {
	List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error)
}

type Service struct {
	log      *slog.Logger
	products ProductRepository
	reviews  ReviewRepository
}

func NewService(log *slog.Logger, products ProductRepository, reviews ReviewRepository) *Service {
	return &Service{log: log, products: products, reviews: reviews}
}

// Product is the fresh read other contexts use for stock checks and
// pricing.
func (s *Service) Product(ctx context.Context, productID string) (domain.Product, error) {
	return s.products.GetByID(ctx, productID)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx, true)
}

// ProductForSale is the cart's view of a product: name, active flag and
// stock on hand.
func (s *Service) ProductForSale(ctx context.Context, productID string) (string, bool, int, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", false, 0, err
	}
	return p.Name, p.IsActive, p.Quantity, nil
}

// ListReviews serves the admin moderation panel.
func (s *Service) ListReviews(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	return s.reviews.List(ctx, filter)
}
