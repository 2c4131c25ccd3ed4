package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	accountdomain "github.com/quickhatch/storefront/internal/account/domain"
	"github.com/quickhatch/storefront/internal/order/domain"
)

// maxOrderNumberAttempts bounds the collision-regeneration loop so a
// pathological random stream cannot spin forever.
const maxOrderNumberAttempts = 5

type Service struct {
	log       *slog.Logger
	repo      OrderRepository
	carts     CartGateway
	products  ProductGateway
	addresses AddressGateway
	pricing   domain.PricingConfig
	prefix    string

	// newNumber is swappable so tests can force collisions.
	newNumber func() string
}

func NewService(log *slog.Logger, repo OrderRepository, carts CartGateway, products ProductGateway, addresses AddressGateway, pricing domain.PricingConfig, numberPrefix string) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		carts:     carts,
		products:  products,
		addresses: addresses,
		pricing:   pricing,
		prefix:    numberPrefix,
		newNumber: func() string { return domain.GenerateOrderNumber(numberPrefix) },
	}
}

type PlaceOrderInput struct {
	AddressID     string
	PaymentMethod string
	Notes         string
}

// PlaceOrder runs the checkout: validate, price with fresh product
// reads, allocate an order number and commit everything atomically.
// Every business-rule failure is detected before any mutation.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (domain.Order, error) {
	if in.AddressID == "" || in.PaymentMethod == "" {
		return domain.Order{}, ErrMissingFields
	}
	method := domain.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return domain.Order{}, ErrInvalidPaymentMethod
	}

	cartID, cartLines, err := s.carts.CartLines(ctx, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if len(cartLines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	addr, err := s.addresses.UserAddress(ctx, userID, in.AddressID)
	if err != nil {
		if errors.Is(err, accountdomain.ErrAddressNotFound) {
			return domain.Order{}, ErrInvalidAddress
		}
		return domain.Order{}, fmt.Errorf("load address: %w", err)
	}

	// Fresh product reads: current price, current stock. Validation
	// stops at the first failing line.
	lines := make([]domain.CheckoutLine, 0, len(cartLines))
	priced := make([]domain.LineItem, 0, len(cartLines))
	for _, cl := range cartLines {
		p, err := s.products.Product(ctx, cl.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("load product %s: %w", cl.ProductID, err)
		}
		if !p.IsActive {
			return domain.Order{}, &StockError{ProductName: p.Name, Unavailable: true}
		}
		if p.Quantity < cl.Quantity {
			return domain.Order{}, &StockError{ProductName: p.Name}
		}
		lines = append(lines, domain.CheckoutLine{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			UnitPrice: p.Price,
			Quantity:  cl.Quantity,
		})
		priced = append(priced, domain.LineItem{UnitPrice: p.Price, Quantity: cl.Quantity})
	}

	totals := domain.CalculateTotals(priced, s.pricing, decimal.Zero)

	shipTo := domain.ShipTo{
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Street:     addr.Street,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}

	// The pre-insert existence check keeps collisions rare; the unique
	// constraint at commit is the real guarantee, and a violation there
	// regenerates too.
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number := s.newNumber()

		exists, err := s.repo.OrderNumberExists(ctx, number)
		if err != nil {
			return domain.Order{}, fmt.Errorf("order number check: %w", err)
		}
		if exists {
			s.log.Warn("order number collision, regenerating", "order_number", number)
			continue
		}

		o := domain.NewOrder(userID, number, addr.ID, shipTo, method, in.Notes, lines, totals)

		payload, err := json.Marshal(domain.OrderPlaced{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			Total:       o.Total,
			Items:       placedItems(o.Items),
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("marshal order event: %w", err)
		}

		err = s.repo.CreateWithOutbox(ctx, o, cartID, "OrderPlaced", payload)
		if errors.Is(err, ErrDuplicateOrderNumber) {
			s.log.Warn("order number taken at commit, regenerating", "order_number", number)
			continue
		}
		if err != nil {
			return domain.Order{}, err
		}

		s.log.Info("order placed",
			"order_id", o.ID,
			"order_number", o.OrderNumber,
			"user_id", o.UserID,
			"total", o.Total.String(),
		)
		return o, nil
	}

	return domain.Order{}, ErrOrderNumberExhausted
}

// ListOrders returns the caller's orders, newest first. Pure read.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetOrder returns one order iff it belongs to userID.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (domain.Order, error) {
	return s.repo.GetByUser(ctx, userID, orderID)
}

// CancelOrder transitions a cancellable order to CANCELLED and restores
// the stock its items had taken. The status check runs twice: here for
// a precise error, and inside the repository transaction for safety
// against a concurrent transition.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID string) (domain.Order, error) {
	o, err := s.repo.GetByUser(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanCancel() {
		return domain.Order{}, ErrNotCancellable
	}

	payload, err := json.Marshal(domain.OrderCancelled{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal cancel event: %w", err)
	}

	cancelled, err := s.repo.CancelWithOutbox(ctx, userID, orderID, "OrderCancelled", payload)
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order cancelled", "order_id", cancelled.ID, "order_number", cancelled.OrderNumber)
	return cancelled, nil
}

func placedItems(items []domain.OrderItem) []domain.PlacedItem {
	out := make([]domain.PlacedItem, len(items))
	for i, it := range items {
		out[i] = domain.PlacedItem{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return out
}
