package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/swapcycle/apiserver/types"
)

// RatingRepository handles persistence for ratings. Ratings are
// write-only: nothing in the system reads them back.
type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating types.Rating) (types.Rating, error) {
	rating.CreatedAt = time.Now()

	const query = `
		INSERT INTO ratings (rater_id, ratee_id, listing_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var listingID sql.NullInt64
	if rating.ListingID != nil {
		listingID = sql.NullInt64{Int64: int64(*rating.ListingID), Valid: true}
	}
	if err := r.db.QueryRowContext(
		ctx,
		query,
		rating.RaterID,
		rating.RateeID,
		listingID,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
	).Scan(&rating.ID); err != nil {
		return types.Rating{}, err
	}
	return rating, nil
}
