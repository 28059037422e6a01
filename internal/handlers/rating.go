package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swapcycle/apiserver/internal/services"
	"go.uber.org/zap"
)

// RatingHandler provides the HTTP handler for recording ratings.
type RatingHandler struct {
	ratings *services.RatingService
	logger  *zap.Logger
}

// NewRatingHandler constructs a handler with the provided service.
func NewRatingHandler(ratings *services.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: logger}
}

// RatingRouter registers rating routes on the given router.
func RatingRouter(r chi.Router, ratings *services.RatingService, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) {
	handler := NewRatingHandler(ratings, logger)

	r.With(authMiddleware).Post("/", handler.CreateRating)
}

func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req RatingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	rating, err := h.ratings.Create(r.Context(), identity.ID, services.RatingCreate{
		RateeID:   req.RateeID,
		ListingID: req.ListingID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, rating)
}

// RatingCreateRequest is the JSON payload for recording a rating.
type RatingCreateRequest struct {
	RateeID   int    `json:"ratee_id"`
	ListingID *int   `json:"listing_id"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}
