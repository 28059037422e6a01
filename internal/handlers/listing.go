package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swapcycle/apiserver/internal/services"
	"github.com/swapcycle/apiserver/types"
	"go.uber.org/zap"
)

// ListingHandler provides HTTP handlers for listings.
type ListingHandler struct {
	listings *services.ListingService
	logger   *zap.Logger
}

// NewListingHandler constructs a handler with the provided service.
func NewListingHandler(listings *services.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, logger: logger}
}

// ListingRouter registers listing routes on the given router. Browse and
// fetch are public; everything else goes through the auth gate.
func ListingRouter(
	r chi.Router,
	listings *services.ListingService,
	offers *services.OfferService,
	authMiddleware func(http.Handler) http.Handler,
	logger *zap.Logger,
) {
	handler := NewListingHandler(listings, logger)
	offerHandler := NewOfferHandler(offers, logger)

	r.Get("/", handler.ListListings)
	r.With(authMiddleware).Post("/", handler.CreateListing)
	r.Route("/{listingID}", func(r chi.Router) {
		r.Get("/", handler.GetListing)
		r.With(authMiddleware).Put("/", handler.UpdateListing)
		r.With(authMiddleware).Delete("/", handler.DeleteListing)
		r.With(authMiddleware).Post("/offers", offerHandler.Propose)
	})
}

func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	items, err := h.listings.List(r.Context(), query, category)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ListingListResponse{Items: items, Total: len(items)})
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := parseListingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req ListingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.listings.Create(r.Context(), identity.ID, services.ListingCreate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	id, err := parseListingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ListingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.listings.Update(r.Context(), identity.ID, id, services.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	id, err := parseListingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.listings.Delete(r.Context(), identity.ID, id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListingCreateRequest is the JSON payload for creating a listing.
type ListingCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
}

// ListingUpdateRequest is the JSON payload for a partial listing update.
// Absent fields stay unchanged.
type ListingUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Condition   *string `json:"condition"`
	IsActive    *bool   `json:"is_active"`
}

// ListingListResponse is the browse response payload.
type ListingListResponse struct {
	Items []types.Listing `json:"items"`
	Total int             `json:"total"`
}

func parseListingID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "listingID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid listing id")
	}
	return id, nil
}
