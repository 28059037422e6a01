package services

import (
	"context"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/types"
)

// OfferRepository defines persistence operations for swap offers.
type OfferRepository interface {
	Create(ctx context.Context, offer types.SwapOffer) (types.SwapOffer, error)
	GetByID(ctx context.Context, id int) (types.SwapOffer, error)
	UpdateStatus(ctx context.Context, id int, status types.OfferStatus) (types.SwapOffer, error)
	ListByProposer(ctx context.Context, proposerID int) ([]types.SwapOffer, error)
	ListByListingOwner(ctx context.Context, ownerID int) ([]types.SwapOffer, error)
}

// OfferInbox groups the caller's offers by role. The two slices come from
// independent queries and are not deduplicated.
type OfferInbox struct {
	AsProposer []types.SwapOffer `json:"as_proposer"`
	AsOwner    []types.SwapOffer `json:"as_owner"`
}

// Actions a listing owner can take on an offer.
const (
	ActionAccept   = "accept"
	ActionReject   = "reject"
	ActionComplete = "complete"
)

// OfferService owns the swap-offer lifecycle: proposal by one user,
// accept/reject/complete by the listing owner.
type OfferService struct {
	offers   OfferRepository
	listings ListingRepository
}

func NewOfferService(offers OfferRepository, listings ListingRepository) *OfferService {
	return &OfferService{offers: offers, listings: listings}
}

// Propose creates a pending offer on someone else's listing. Repeated
// offers by the same proposer are allowed.
func (s *OfferService) Propose(ctx context.Context, callerID, listingID int, offeredText string) (types.SwapOffer, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return types.SwapOffer{}, translateStoreErr(err, "listing not found", "conflict")
	}
	if callerID == listing.OwnerID {
		return types.SwapOffer{}, apperr.Validation("Cannot offer on your own listing")
	}

	offer, err := s.offers.Create(ctx, types.SwapOffer{
		ListingID:   listingID,
		ProposerID:  callerID,
		OfferedText: offeredText,
		Status:      types.OfferPending,
	})
	if err != nil {
		return types.SwapOffer{}, apperr.Internal(err)
	}
	return offer, nil
}

// Act applies an owner decision to the offer. Only the listing owner may
// act, and only forward transitions are accepted: pending to accepted or
// rejected, accepted to completed.
func (s *OfferService) Act(ctx context.Context, callerID, offerID int, action string) (types.SwapOffer, error) {
	target, err := statusForAction(action)
	if err != nil {
		return types.SwapOffer{}, err
	}

	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return types.SwapOffer{}, translateStoreErr(err, "offer not found", "conflict")
	}
	if err := ownerOnly(callerID, offer.Listing.OwnerID); err != nil {
		return types.SwapOffer{}, err
	}

	if !offer.Status.CanTransition(target) {
		return types.SwapOffer{}, apperr.Validation(
			"cannot " + action + " an offer that is " + offer.Status.String())
	}

	updated, err := s.offers.UpdateStatus(ctx, offerID, target)
	if err != nil {
		return types.SwapOffer{}, translateStoreErr(err, "offer not found", "conflict")
	}
	return updated, nil
}

// ListForCaller returns the caller's offers in both roles.
func (s *OfferService) ListForCaller(ctx context.Context, callerID int) (OfferInbox, error) {
	asProposer, err := s.offers.ListByProposer(ctx, callerID)
	if err != nil {
		return OfferInbox{}, apperr.Internal(err)
	}
	asOwner, err := s.offers.ListByListingOwner(ctx, callerID)
	if err != nil {
		return OfferInbox{}, apperr.Internal(err)
	}
	return OfferInbox{AsProposer: asProposer, AsOwner: asOwner}, nil
}

func statusForAction(action string) (types.OfferStatus, error) {
	switch action {
	case ActionAccept:
		return types.OfferAccepted, nil
	case ActionReject:
		return types.OfferRejected, nil
	case ActionComplete:
		return types.OfferCompleted, nil
	default:
		return 0, apperr.Validation("unknown action " + action)
	}
}
