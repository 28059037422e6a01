package types

import "time"

// Rating represents a score one user gives another, optionally tied to a
// listing. Ratings are recorded only; no aggregation is performed.
type Rating struct {
	// ID is the unique identifier of the rating.
	ID int `json:"id" db:"id"`

	// RaterID identifies the user giving the rating.
	RaterID int `json:"rater_id" db:"rater_id"`

	// RateeID identifies the user being rated.
	RateeID int `json:"ratee_id" db:"ratee_id"`

	// ListingID optionally ties the rating to a listing.
	ListingID *int `json:"listing_id,omitempty" db:"listing_id"`

	// Score is the rating value, bounded to 1 through 5.
	Score int `json:"score" db:"score"`

	// Comment is an optional free-form remark.
	Comment string `json:"comment" db:"comment"`

	// CreatedAt is the timestamp when the rating was recorded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
