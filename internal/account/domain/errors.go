package domain

import "errors"

// ErrAddressNotFound covers both a missing address and one owned by a
// different user, so callers cannot probe for other tenants' data.
var ErrAddressNotFound = errors.New("address not found")

// ErrWishlistItemNotFound follows the same ownership conflation.
var ErrWishlistItemNotFound = errors.New("wishlist item not found")
