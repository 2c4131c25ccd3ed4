package domain

import "time"

// Address is a user's saved delivery address. At most one address per
// user has IsDefault set; the repository unsets the others whenever a
// new default is written.
type Address struct {
	ID         string
	UserID     string
	FullName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AddressPatch carries a partial address update; nil fields are left
// untouched.
type AddressPatch struct {
	FullName   *string
	Phone      *string
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
	IsDefault  *bool
}

// WishlistItem is a saved product reference. Only removal is handled by
// this core; additions happen on the product pages.
type WishlistItem struct {
	ID        string
	UserID    string
	ProductID string
	CreatedAt time.Time
}
