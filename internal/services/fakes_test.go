package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/swapcycle/apiserver/internal/store"
	"github.com/swapcycle/apiserver/types"
)

func userWithEmail(email string) types.User {
	return types.User{Email: email, PasswordHash: "hash"}
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

// fakeListingRepo is an in-memory ListingRepository.
type fakeListingRepo struct {
	nextID   int
	listings map[int]types.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{nextID: 1, listings: make(map[int]types.Listing)}
}

func (r *fakeListingRepo) Create(_ context.Context, listing types.Listing) (types.Listing, error) {
	listing.ID = r.nextID
	r.nextID++
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	for i := range listing.Images {
		listing.Images[i].ListingID = listing.ID
		listing.Images[i].Position = i
	}
	r.listings[listing.ID] = listing
	return listing, nil
}

func (r *fakeListingRepo) List(_ context.Context, query, category string) ([]types.Listing, error) {
	query = strings.ToLower(query)
	matches := make([]types.Listing, 0)
	for _, listing := range r.listings {
		if !listing.IsActive {
			continue
		}
		if category != "" && listing.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(listing.Title), query) &&
			!strings.Contains(strings.ToLower(listing.Description), query) {
			continue
		}
		matches = append(matches, listing)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id int) (types.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return types.Listing{}, store.ErrNotFound
	}
	return listing, nil
}

func (r *fakeListingRepo) Update(_ context.Context, listing types.Listing) (types.Listing, error) {
	if _, ok := r.listings[listing.ID]; !ok {
		return types.Listing{}, store.ErrNotFound
	}
	listing.UpdatedAt = time.Now()
	r.listings[listing.ID] = listing
	return listing, nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.listings[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

// fakeOfferRepo is an in-memory OfferRepository linked to a listing repo
// so fetched offers embed their listing.
type fakeOfferRepo struct {
	nextID   int
	offers   map[int]types.SwapOffer
	listings *fakeListingRepo
}

func newFakeOfferRepo(listings *fakeListingRepo) *fakeOfferRepo {
	return &fakeOfferRepo{nextID: 1, offers: make(map[int]types.SwapOffer), listings: listings}
}

func (r *fakeOfferRepo) Create(_ context.Context, offer types.SwapOffer) (types.SwapOffer, error) {
	offer.ID = r.nextID
	r.nextID++
	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	r.offers[offer.ID] = offer
	return offer, nil
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id int) (types.SwapOffer, error) {
	offer, ok := r.offers[id]
	if !ok {
		return types.SwapOffer{}, store.ErrNotFound
	}
	listing, err := r.listings.GetByID(ctx, offer.ListingID)
	if err != nil {
		return types.SwapOffer{}, err
	}
	offer.Listing = &listing
	return offer, nil
}

func (r *fakeOfferRepo) UpdateStatus(ctx context.Context, id int, status types.OfferStatus) (types.SwapOffer, error) {
	offer, ok := r.offers[id]
	if !ok {
		return types.SwapOffer{}, store.ErrNotFound
	}
	offer.Status = status
	offer.UpdatedAt = offer.UpdatedAt.Add(time.Millisecond)
	r.offers[id] = offer
	return r.GetByID(ctx, id)
}

func (r *fakeOfferRepo) ListByProposer(ctx context.Context, proposerID int) ([]types.SwapOffer, error) {
	matches := make([]types.SwapOffer, 0)
	for id, offer := range r.offers {
		if offer.ProposerID == proposerID {
			withListing, err := r.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			matches = append(matches, withListing)
		}
	}
	return matches, nil
}

func (r *fakeOfferRepo) ListByListingOwner(ctx context.Context, ownerID int) ([]types.SwapOffer, error) {
	matches := make([]types.SwapOffer, 0)
	for id, offer := range r.offers {
		listing, err := r.listings.GetByID(ctx, offer.ListingID)
		if err != nil {
			continue
		}
		if listing.OwnerID == ownerID {
			withListing, err := r.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			matches = append(matches, withListing)
		}
	}
	return matches, nil
}

// fakeRatingRepo is an in-memory RatingRepository.
type fakeRatingRepo struct {
	nextID  int
	ratings []types.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{nextID: 1}
}

func (r *fakeRatingRepo) Create(_ context.Context, rating types.Rating) (types.Rating, error) {
	rating.ID = r.nextID
	r.nextID++
	rating.CreatedAt = time.Now()
	r.ratings = append(r.ratings, rating)
	return rating, nil
}
