package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// SwapOffer represents a proposal by one user to swap for another user's
// listing. It is a relation entity between the proposer and the listing
// owner; only the listing owner may change its status after creation.
type SwapOffer struct {
	// ID is the unique identifier of the offer.
	ID int `json:"id" db:"id"`

	// ListingID identifies the listing this offer targets.
	ListingID int `json:"listing_id" db:"listing_id"`

	// ProposerID identifies the user who made the offer. Always distinct
	// from the listing owner.
	ProposerID int `json:"proposer_id" db:"proposer_id"`

	// OfferedText is a free-form description of what the proposer offers
	// in exchange.
	OfferedText string `json:"offered_text" db:"offered_text"`

	// Status is the offer's position in its lifecycle.
	Status OfferStatus `json:"status" db:"status"`

	// CreatedAt is the timestamp when the offer was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is refreshed on every status transition.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Listing is the related listing, embedded in read responses.
	Listing *Listing `json:"listing,omitempty" db:"listing"`
}

// OfferStatus represents the lifecycle state of a swap offer.
// Transitions only move forward: pending to accepted or rejected, and
// accepted to completed. Rejected and completed are terminal.
type OfferStatus int

// Supported offer status values.
const (
	// OfferPending indicates the offer awaits a decision by the listing owner.
	OfferPending OfferStatus = iota

	// OfferAccepted indicates the listing owner accepted the offer.
	OfferAccepted

	// OfferRejected indicates the listing owner rejected the offer.
	OfferRejected

	// OfferCompleted indicates the swap was carried out.
	OfferCompleted
)

// String returns the compact string representation of the status used in
// API responses and the database.
func (s OfferStatus) String() string {
	switch s {
	case OfferPending:
		return "pending"
	case OfferAccepted:
		return "accepted"
	case OfferRejected:
		return "rejected"
	case OfferCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to target is a legal
// forward transition.
func (s OfferStatus) CanTransition(target OfferStatus) bool {
	switch s {
	case OfferPending:
		return target == OfferAccepted || target == OfferRejected
	case OfferAccepted:
		return target == OfferCompleted
	default:
		return false
	}
}

// ParseOfferStatus converts the stored string form back into an OfferStatus.
func ParseOfferStatus(raw string) (OfferStatus, error) {
	switch raw {
	case "pending":
		return OfferPending, nil
	case "accepted":
		return OfferAccepted, nil
	case "rejected":
		return OfferRejected, nil
	case "completed":
		return OfferCompleted, nil
	default:
		return 0, fmt.Errorf("unknown offer status %q", raw)
	}
}

func (s OfferStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OfferStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOfferStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
