package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickhatch/storefront/internal/account/domain"
)

type fakeAddresses struct {
	byID map[string]domain.Address
}

func (f *fakeAddresses) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddresses) GetByUser(_ context.Context, userID, addressID string) (domain.Address, error) {
	a, ok := f.byID[addressID]
	if !ok || a.UserID != userID {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	return a, nil
}

func (f *fakeAddresses) Create(_ context.Context, a domain.Address) (domain.Address, error) {
	if a.IsDefault {
		for id, other := range f.byID {
			if other.UserID == a.UserID && other.IsDefault {
				other.IsDefault = false
				f.byID[id] = other
			}
		}
	}
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAddresses) Update(_ context.Context, userID, addressID string, patch domain.AddressPatch) (domain.Address, error) {
	a, ok := f.byID[addressID]
	if !ok || a.UserID != userID {
		return domain.Address{}, domain.ErrAddressNotFound
	}
	if patch.IsDefault != nil {
		a.IsDefault = *patch.IsDefault
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	f.byID[addressID] = a
	return a, nil
}

func (f *fakeAddresses) Delete(_ context.Context, userID, addressID string) error {
	a, ok := f.byID[addressID]
	if !ok || a.UserID != userID {
		return domain.ErrAddressNotFound
	}
	delete(f.byID, addressID)
	return nil
}

type fakeWishlist struct {
	items map[string]domain.WishlistItem
}

func (f *fakeWishlist) ListByUser(_ context.Context, userID string) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeWishlist) Delete(_ context.Context, userID, itemID string) error {
	it, ok := f.items[itemID]
	if !ok || it.UserID != userID {
		return domain.ErrWishlistItemNotFound
	}
	delete(f.items, itemID)
	return nil
}

func newService(addrs *fakeAddresses, wl *fakeWishlist) *Service {
	return NewService(slog.New(slog.DiscardHandler), addrs, wl)
}

func validAddress() domain.Address {
	return domain.Address{
		FullName:   "Jamie Ortega",
		Phone:      "555-0101",
		Street:     "1 Market St",
		City:       "Springfield",
		State:      "CA",
		PostalCode: "94100",
		Country:    "US",
	}
}

func TestCreateAddressRejectsMissingFields(t *testing.T) {
	svc := newService(&fakeAddresses{byID: map[string]domain.Address{}}, nil)

	a := validAddress()
	a.City = ""
	_, err := svc.CreateAddress(context.Background(), "user-1", a)
	assert.ErrorIs(t, err, ErrMissingAddressFields)
}

func TestCreateAddressAssignsIdentityAndTimestamps(t *testing.T) {
	svc := newService(&fakeAddresses{byID: map[string]domain.Address{}}, nil)

	created, err := svc.CreateAddress(context.Background(), "user-1", validAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateDefaultAddressDemotesPrevious(t *testing.T) {
	addrs := &fakeAddresses{byID: map[string]domain.Address{}}
	svc := newService(addrs, nil)

	first := validAddress()
	first.IsDefault = true
	prev, err := svc.CreateAddress(context.Background(), "user-1", first)
	require.NoError(t, err)

	second := validAddress()
	second.IsDefault = true
	_, err = svc.CreateAddress(context.Background(), "user-1", second)
	require.NoError(t, err)

	assert.False(t, addrs.byID[prev.ID].IsDefault)
}

func TestUserAddressScopedToOwner(t *testing.T) {
	addrs := &fakeAddresses{byID: map[string]domain.Address{
		"addr-1": {ID: "addr-1", UserID: "user-1"},
	}}
	svc := newService(addrs, nil)

	_, err := svc.UserAddress(context.Background(), "user-2", "addr-1")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestRemoveWishlistItemScopedToOwner(t *testing.T) {
	wl := &fakeWishlist{items: map[string]domain.WishlistItem{
		"wl-1": {ID: "wl-1", UserID: "user-1", ProductID: "p1"},
	}}
	svc := newService(nil, wl)

	err := svc.RemoveWishlistItem(context.Background(), "user-2", "wl-1")
	assert.ErrorIs(t, err, domain.ErrWishlistItemNotFound)

	err = svc.RemoveWishlistItem(context.Background(), "user-1", "wl-1")
	require.NoError(t, err)
	assert.Empty(t, wl.items)
}
