package services

import (
	"context"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/types"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating types.Rating) (types.Rating, error)
}

// RatingCreate is the input for recording a rating.
type RatingCreate struct {
	RateeID   int
	ListingID *int
	Score     int
	Comment   string
}

// RatingService records ratings. They are never read back into any
// computation.
type RatingService struct {
	ratings RatingRepository
	users   UserRepository
}

func NewRatingService(ratings RatingRepository, users UserRepository) *RatingService {
	return &RatingService{ratings: ratings, users: users}
}

// Create records a rating from the caller about another user.
func (s *RatingService) Create(ctx context.Context, callerID int, req RatingCreate) (types.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return types.Rating{}, apperr.Validation("score must be between 1 and 5")
	}
	if req.RateeID == callerID {
		return types.Rating{}, apperr.Validation("cannot rate yourself")
	}

	if _, err := s.users.GetByID(ctx, req.RateeID); err != nil {
		return types.Rating{}, translateStoreErr(err, "user not found", "conflict")
	}

	rating, err := s.ratings.Create(ctx, types.Rating{
		RaterID:   callerID,
		RateeID:   req.RateeID,
		ListingID: req.ListingID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		return types.Rating{}, apperr.Internal(err)
	}
	return rating, nil
}
