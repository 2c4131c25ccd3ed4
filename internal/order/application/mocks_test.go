package application

import (
	"context"
	"errors"

	accountdomain "github.com/quickhatch/storefront/internal/account/domain"
	catalogdomain "github.com/quickhatch/storefront/internal/catalog/domain"
	"github.com/quickhatch/storefront/internal/order/domain"
)

type fakeRepo struct {
	existing      map[string]bool
	existsErr     error
	createErrs    []error // popped per CreateWithOutbox call
	created       []domain.Order
	createdCartID string
	eventTypes    []string

	orders    map[string]domain.Order // keyed by orderID
	cancelErr error
	cancelled []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		existing: map[string]bool{},
		orders:   map[string]domain.Order{},
	}
}

func (r *fakeRepo) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[number], nil
}

func (r *fakeRepo) CreateWithOutbox(ctx context.Context, o domain.Order, cartID, eventType string, payload []byte) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	r.created = append(r.created, o)
	r.createdCartID = cartID
	r.eventTypes = append(r.eventTypes, eventType)
	return nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByUser(ctx context.Context, userID, orderID string) (domain.Order, error) {
	o, ok := r.orders[orderID]
	if !ok || o.UserID != userID {
		return domain.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeRepo) CancelWithOutbox(ctx context.Context, userID, orderID, eventType string, payload []byte) (domain.Order, error) {
	if r.cancelErr != nil {
		return domain.Order{}, r.cancelErr
	}
	o, ok := r.orders[orderID]
	if !ok || o.UserID != userID {
		return domain.Order{}, ErrOrderNotFound
	}
	o.Status = domain.StatusCancelled
	r.orders[orderID] = o
	r.cancelled = append(r.cancelled, orderID)
	r.eventTypes = append(r.eventTypes, eventType)
	return o, nil
}

type fakeCarts struct {
	cartID string
	lines  []CartLine
	err    error
}

func (c *fakeCarts) CartLines(ctx context.Context, userID string) (string, []CartLine, error) {
	return c.cartID, c.lines, c.err
}

type fakeProducts struct {
	products map[string]catalogdomain.Product
}

func (p *fakeProducts) Product(ctx context.Context, id string) (catalogdomain.Product, error) {
	prod, ok := p.products[id]
	if !ok {
		return catalogdomain.Product{}, errors.New("unexpected product lookup: " + id)
	}
	return prod, nil
}

type fakeAddresses struct {
	addr accountdomain.Address
	err  error
}

func (a *fakeAddresses) UserAddress(ctx context.Context, userID, addressID string) (accountdomain.Address, error) {
	if a.err != nil {
		return accountdomain.Address{}, a.err
	}
	return a.addr, nil
}
