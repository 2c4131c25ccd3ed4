package domain

import "time"

// Review of a product, listed in the admin panel with verification and
// rating filters.
type Review struct {
	ID         string
	Rating     int
	Title      string
	Comment    string
	IsVerified bool
	User       Reviewer
	Product    ReviewedProduct
	CreatedAt  time.Time
}

type Reviewer struct {
	ID    string
	Name  string
	Email string
}

type ReviewedProduct struct {
	ID   string
	Name string
	Slug string
}

// ReviewFilter narrows the admin listing. Zero values mean "no filter".
type ReviewFilter struct {
	// Verified filters on the verification flag when non-nil.
	Verified *bool
	// Rating filters on an exact star rating when in 1..5.
	Rating int
}
