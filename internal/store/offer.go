package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/swapcycle/apiserver/types"
)

// OfferRepository handles persistence for swap offers.
type OfferRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer types.SwapOffer) (types.SwapOffer, error) {
	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now

	const query = `
		INSERT INTO swap_offers (listing_id, proposer_id, offered_text, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		offer.ListingID,
		offer.ProposerID,
		offer.OfferedText,
		offer.Status.String(),
		offer.CreatedAt,
		offer.UpdatedAt,
	).Scan(&offer.ID); err != nil {
		return types.SwapOffer{}, err
	}
	return offer, nil
}

// GetByID returns the offer with its listing embedded, so callers can
// authorize against the listing owner without a second round-trip.
func (r *OfferRepository) GetByID(ctx context.Context, id int) (types.SwapOffer, error) {
	const query = `
		SELECT o.id, o.listing_id, o.proposer_id, o.offered_text, o.status, o.created_at, o.updated_at,
		       l.id, l.owner_id, l.title, l.description, l.category, l.condition,
		       l.is_active, l.created_at, l.updated_at
		FROM swap_offers o
		JOIN listings l ON l.id = o.listing_id
		WHERE o.id = $1`
	offer, err := scanOfferWithListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SwapOffer{}, ErrNotFound
		}
		return types.SwapOffer{}, err
	}
	return offer, nil
}

// UpdateStatus sets the offer's status and refreshes updated_at.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id int, status types.OfferStatus) (types.SwapOffer, error) {
	updatedAt := time.Now()

	const query = `
		UPDATE swap_offers
		SET status = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status.String(), updatedAt, id)
	if err != nil {
		return types.SwapOffer{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.SwapOffer{}, err
	}
	if affected == 0 {
		return types.SwapOffer{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// ListByProposer returns the caller's outgoing offers, newest first, each
// embedding the related listing.
func (r *OfferRepository) ListByProposer(ctx context.Context, proposerID int) ([]types.SwapOffer, error) {
	const query = `
		SELECT o.id, o.listing_id, o.proposer_id, o.offered_text, o.status, o.created_at, o.updated_at,
		       l.id, l.owner_id, l.title, l.description, l.category, l.condition,
		       l.is_active, l.created_at, l.updated_at
		FROM swap_offers o
		JOIN listings l ON l.id = o.listing_id
		WHERE o.proposer_id = $1
		ORDER BY o.created_at DESC`
	return r.listOffers(ctx, query, proposerID)
}

// ListByListingOwner returns the offers made on the caller's listings,
// newest first, each embedding the related listing.
func (r *OfferRepository) ListByListingOwner(ctx context.Context, ownerID int) ([]types.SwapOffer, error) {
	const query = `
		SELECT o.id, o.listing_id, o.proposer_id, o.offered_text, o.status, o.created_at, o.updated_at,
		       l.id, l.owner_id, l.title, l.description, l.category, l.condition,
		       l.is_active, l.created_at, l.updated_at
		FROM swap_offers o
		JOIN listings l ON l.id = o.listing_id
		WHERE l.owner_id = $1
		ORDER BY o.created_at DESC`
	return r.listOffers(ctx, query, ownerID)
}

func (r *OfferRepository) listOffers(ctx context.Context, query string, arg any) ([]types.SwapOffer, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]types.SwapOffer, 0)
	for rows.Next() {
		offer, err := scanOfferWithListing(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func scanOfferWithListing(row scanner) (types.SwapOffer, error) {
	var offer types.SwapOffer
	var listing types.Listing
	var status string
	if err := row.Scan(
		&offer.ID,
		&offer.ListingID,
		&offer.ProposerID,
		&offer.OfferedText,
		&status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&listing.Description,
		&listing.Category,
		&listing.Condition,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		return types.SwapOffer{}, err
	}

	parsed, err := types.ParseOfferStatus(status)
	if err != nil {
		return types.SwapOffer{}, err
	}
	offer.Status = parsed
	offer.Listing = &listing
	return offer, nil
}
