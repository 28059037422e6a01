package types

import "time"

// Listing represents an item a user offers for swap.
type Listing struct {
	// ID is the unique identifier of the listing.
	ID int `json:"id" db:"id"`

	// OwnerID identifies the user who created the listing. Ownership is
	// fixed at creation and is the sole authority for mutation, deletion,
	// and acting on the listing's offers.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// Title is the human-readable name of the item. Required.
	Title string `json:"title" db:"title"`

	// Description contains the full item description.
	Description string `json:"description" db:"description"`

	// Category is a free-form category label used for exact-match filtering.
	Category string `json:"category" db:"category"`

	// Condition describes the physical state of the item (e.g. "used", "new").
	Condition string `json:"condition" db:"condition"`

	// IsActive controls visibility: inactive listings never appear in
	// browse results. Defaults to true.
	IsActive bool `json:"is_active" db:"is_active"`

	// CreatedAt is the timestamp at which the listing was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the listing.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Images is the ordered sequence of image references for this listing.
	Images []ListingImage `json:"images" db:"images"`

	// Owner is the redacted owner projection embedded in read responses.
	// The password hash is never serialized.
	Owner *User `json:"owner,omitempty" db:"owner"`

	// Offers holds the swap offers made on this listing. Populated only
	// for single-listing fetches.
	Offers []SwapOffer `json:"offers,omitempty" db:"offers"`
}

// ListingImage is a URL plus an ordinal position within its listing.
// It has no lifecycle of its own; rows are created and removed with
// their listing.
type ListingImage struct {
	// ID is the unique identifier of the image row.
	ID int `json:"id" db:"id"`

	// ListingID identifies the listing this image belongs to.
	ListingID int `json:"listing_id" db:"listing_id"`

	// URL is the externally hosted image location.
	URL string `json:"url" db:"url"`

	// Position is the zero-based ordinal of the image within the listing.
	Position int `json:"position" db:"position"`
}
