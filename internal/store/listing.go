package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/swapcycle/apiserver/types"
)

// ListingRepository handles persistence for listings and their images.
type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create inserts the listing and its ordered images in one transaction.
func (r *ListingRepository) Create(ctx context.Context, listing types.Listing) (types.Listing, error) {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Listing{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertListing = `
		INSERT INTO listings (owner_id, title, description, category, condition, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertListing,
		listing.OwnerID,
		listing.Title,
		listing.Description,
		listing.Category,
		listing.Condition,
		listing.IsActive,
		listing.CreatedAt,
		listing.UpdatedAt,
	).Scan(&listing.ID); err != nil {
		return types.Listing{}, err
	}

	const insertImage = `
		INSERT INTO listing_images (listing_id, url, position)
		VALUES ($1, $2, $3)
		RETURNING id`
	for i := range listing.Images {
		listing.Images[i].ListingID = listing.ID
		listing.Images[i].Position = i
		if err := tx.QueryRowContext(
			ctx,
			insertImage,
			listing.ID,
			listing.Images[i].URL,
			listing.Images[i].Position,
		).Scan(&listing.Images[i].ID); err != nil {
			return types.Listing{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Listing{}, err
	}
	return listing, nil
}

// List returns active listings, newest first, optionally filtered by an
// exact category match and a case-insensitive substring match against
// title or description. Each result embeds its images and a redacted
// owner projection.
func (r *ListingRepository) List(ctx context.Context, query, category string) ([]types.Listing, error) {
	const listQuery = `
		SELECT l.id, l.owner_id, l.title, l.description, l.category, l.condition,
		       l.is_active, l.created_at, l.updated_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM listings l
		JOIN users u ON u.id = l.owner_id
		WHERE l.is_active = TRUE
		  AND ($1 = '' OR l.title ILIKE '%' || $1 || '%' OR l.description ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR l.category = $2)
		ORDER BY l.created_at DESC`
	rows, err := r.db.QueryContext(ctx, listQuery, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]types.Listing, 0)
	for rows.Next() {
		listing, err := scanListingWithOwner(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetByID returns the listing with its images, redacted owner, and offers.
func (r *ListingRepository) GetByID(ctx context.Context, id int) (types.Listing, error) {
	const query = `
		SELECT l.id, l.owner_id, l.title, l.description, l.category, l.condition,
		       l.is_active, l.created_at, l.updated_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM listings l
		JOIN users u ON u.id = l.owner_id
		WHERE l.id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	listing, err := scanListingWithOwner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Listing{}, ErrNotFound
		}
		return types.Listing{}, err
	}

	results := []types.Listing{listing}
	if err := r.attachImages(ctx, results); err != nil {
		return types.Listing{}, err
	}
	listing = results[0]

	offers, err := r.listOffers(ctx, id)
	if err != nil {
		return types.Listing{}, err
	}
	listing.Offers = offers
	return listing, nil
}

// Update overwrites the mutable listing fields. The owner and creation
// timestamp never change.
func (r *ListingRepository) Update(ctx context.Context, listing types.Listing) (types.Listing, error) {
	listing.UpdatedAt = time.Now()

	const query = `
		UPDATE listings
		SET title = $1,
			description = $2,
			category = $3,
			condition = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		listing.Title,
		listing.Description,
		listing.Category,
		listing.Condition,
		listing.IsActive,
		listing.UpdatedAt,
		listing.ID,
	)
	if err != nil {
		return types.Listing{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Listing{}, err
	}
	if affected == 0 {
		return types.Listing{}, ErrNotFound
	}
	return listing, nil
}

// Delete removes the listing together with its images and offers. The
// cascade is explicit: the schema does not do it for us.
func (r *ListingRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_images WHERE listing_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM swap_offers WHERE listing_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// attachImages loads the images for every listing in place, ordered by
// position.
func (r *ListingRepository) attachImages(ctx context.Context, listings []types.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(listings))
	index := make(map[int]int, len(listings))
	for i := range listings {
		ids = append(ids, int64(listings[i].ID))
		index[listings[i].ID] = i
		listings[i].Images = make([]types.ListingImage, 0)
	}

	const query = `
		SELECT id, listing_id, url, position
		FROM listing_images
		WHERE listing_id = ANY($1)
		ORDER BY listing_id, position`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var image types.ListingImage
		if err := rows.Scan(&image.ID, &image.ListingID, &image.URL, &image.Position); err != nil {
			return err
		}
		if i, ok := index[image.ListingID]; ok {
			listings[i].Images = append(listings[i].Images, image)
		}
	}
	return rows.Err()
}

func (r *ListingRepository) listOffers(ctx context.Context, listingID int) ([]types.SwapOffer, error) {
	const query = `
		SELECT id, listing_id, proposer_id, offered_text, status, created_at, updated_at
		FROM swap_offers
		WHERE listing_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]types.SwapOffer, 0)
	for rows.Next() {
		var offer types.SwapOffer
		var status string
		if err := rows.Scan(
			&offer.ID,
			&offer.ListingID,
			&offer.ProposerID,
			&offer.OfferedText,
			&status,
			&offer.CreatedAt,
			&offer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if offer.Status, err = types.ParseOfferStatus(status); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanListingWithOwner(row scanner) (types.Listing, error) {
	var listing types.Listing
	var owner types.User
	if err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&listing.Description,
		&listing.Category,
		&listing.Condition,
		&listing.IsActive,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&owner.ID,
		&owner.Email,
		&owner.Name,
		&owner.AvatarURL,
	); err != nil {
		return types.Listing{}, err
	}
	listing.Owner = &owner
	return listing, nil
}
