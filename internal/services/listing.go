package services

import (
	"context"
	"strings"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/types"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing types.Listing) (types.Listing, error)
	List(ctx context.Context, query, category string) ([]types.Listing, error)
	GetByID(ctx context.Context, id int) (types.Listing, error)
	Update(ctx context.Context, listing types.Listing) (types.Listing, error)
	Delete(ctx context.Context, id int) error
}

// ListingCreate is the input for creating a listing.
type ListingCreate struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Images      []string
}

// ListingUpdate is a partial update: only non-nil fields change.
type ListingUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Condition   *string
	IsActive    *bool
}

// ListingService encapsulates listing use-cases. All mutation is gated on
// ownership.
type ListingService struct {
	repo ListingRepository
}

func NewListingService(repo ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// Create stores a new listing owned by the caller. The image URLs are
// persisted in order; the owner cannot be overridden.
func (s *ListingService) Create(ctx context.Context, callerID int, req ListingCreate) (types.Listing, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return types.Listing{}, apperr.Validation("title is required")
	}

	images := make([]types.ListingImage, 0, len(req.Images))
	for i, url := range req.Images {
		images = append(images, types.ListingImage{URL: url, Position: i})
	}

	listing, err := s.repo.Create(ctx, types.Listing{
		OwnerID:     callerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		IsActive:    true,
		Images:      images,
	})
	if err != nil {
		return types.Listing{}, apperr.Internal(err)
	}
	return listing, nil
}

// List returns active listings matching the optional filters.
func (s *ListingService) List(ctx context.Context, query, category string) ([]types.Listing, error) {
	listings, err := s.repo.List(ctx, strings.TrimSpace(query), strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return listings, nil
}

// GetByID returns one listing with images, redacted owner, and offers.
func (s *ListingService) GetByID(ctx context.Context, id int) (types.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Listing{}, translateStoreErr(err, "listing not found", "conflict")
	}
	return listing, nil
}

// Update applies a partial merge to the caller's listing.
func (s *ListingService) Update(ctx context.Context, callerID, id int, req ListingUpdate) (types.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Listing{}, translateStoreErr(err, "listing not found", "conflict")
	}
	if err := ownerOnly(callerID, listing.OwnerID); err != nil {
		return types.Listing{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return types.Listing{}, apperr.Validation("title is required")
		}
		listing.Title = title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.Condition != nil {
		listing.Condition = *req.Condition
	}
	if req.IsActive != nil {
		listing.IsActive = *req.IsActive
	}

	updated, err := s.repo.Update(ctx, listing)
	if err != nil {
		return types.Listing{}, translateStoreErr(err, "listing not found", "conflict")
	}
	return updated, nil
}

// Delete removes the caller's listing along with its images and offers.
func (s *ListingService) Delete(ctx context.Context, callerID, id int) error {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translateStoreErr(err, "listing not found", "conflict")
	}
	if err := ownerOnly(callerID, listing.OwnerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateStoreErr(err, "listing not found", "conflict")
	}
	return nil
}
