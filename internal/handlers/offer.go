package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swapcycle/apiserver/internal/services"
	"go.uber.org/zap"
)

// OfferHandler provides HTTP handlers for swap offers.
type OfferHandler struct {
	offers *services.OfferService
	logger *zap.Logger
}

// NewOfferHandler constructs a handler with the provided service.
func NewOfferHandler(offers *services.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{offers: offers, logger: logger}
}

// OfferRouter registers offer routes on the given router. Every route is
// guarded; the propose route lives under the listing router.
func OfferRouter(r chi.Router, offers *services.OfferService, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) {
	handler := NewOfferHandler(offers, logger)

	r.With(authMiddleware).Get("/", handler.ListMine)
	r.With(authMiddleware).Post("/{offerID}/{action}", handler.Act)
}

// Propose creates a pending offer on the listing in the URL.
func (h *OfferHandler) Propose(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	listingID, err := parseListingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req OfferProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	offer, err := h.offers.Propose(r.Context(), identity.ID, listingID, req.OfferedText)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}

// Act applies an accept, reject, or complete decision to the offer.
func (h *OfferHandler) Act(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	offerID, err := parseOfferID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action := chi.URLParam(r, "action")

	offer, err := h.offers.Act(r.Context(), identity.ID, offerID, action)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// ListMine returns the caller's offers, grouped by role.
func (h *OfferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	inbox, err := h.offers.ListForCaller(r.Context(), identity.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, inbox)
}

// OfferProposeRequest is the JSON payload for proposing a swap.
type OfferProposeRequest struct {
	OfferedText string `json:"offered_text"`
}

func parseOfferID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "offerID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid offer id")
	}
	return id, nil
}
