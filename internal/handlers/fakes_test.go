package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swapcycle/apiserver/internal/services"
	"github.com/swapcycle/apiserver/internal/store"
	"github.com/swapcycle/apiserver/types"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

// newTestRouter assembles the full route tree over in-memory
// repositories, mirroring the wiring in internal/server.
func newTestRouter() *chi.Mux {
	logger := zap.NewNop()

	userRepo := &memUserRepo{nextID: 1, users: map[int]types.User{}}
	listingRepo := &memListingRepo{nextID: 1, listings: map[int]types.Listing{}}
	offerRepo := &memOfferRepo{nextID: 1, offers: map[int]types.SwapOffer{}, listings: listingRepo}

	identity := services.NewIdentityService(userRepo, testSecret)
	listings := services.NewListingService(listingRepo)
	offers := services.NewOfferService(offerRepo, listingRepo)
	ratings := services.NewRatingService(&memRatingRepo{nextID: 1}, userRepo)

	authMiddleware := RequireAuth(testSecret)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, identity, authMiddleware, logger)
	})
	router.Route("/listings", func(r chi.Router) {
		ListingRouter(r, listings, offers, authMiddleware, logger)
	})
	router.Route("/offers", func(r chi.Router) {
		OfferRouter(r, offers, authMiddleware, logger)
	})
	router.Route("/ratings", func(r chi.Router) {
		RatingRouter(r, ratings, authMiddleware, logger)
	})
	return router
}

type memUserRepo struct {
	nextID int
	users  map[int]types.User
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
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

type memListingRepo struct {
	nextID   int
	listings map[int]types.Listing
}

func (r *memListingRepo) Create(_ context.Context, listing types.Listing) (types.Listing, error) {
	listing.ID = r.nextID
	r.nextID++
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.listings[listing.ID] = listing
	return listing, nil
}

func (r *memListingRepo) List(_ context.Context, query, category string) ([]types.Listing, error) {
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

func (r *memListingRepo) GetByID(_ context.Context, id int) (types.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return types.Listing{}, store.ErrNotFound
	}
	return listing, nil
}

func (r *memListingRepo) Update(_ context.Context, listing types.Listing) (types.Listing, error) {
	if _, ok := r.listings[listing.ID]; !ok {
		return types.Listing{}, store.ErrNotFound
	}
	listing.UpdatedAt = time.Now()
	r.listings[listing.ID] = listing
	return listing, nil
}

func (r *memListingRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.listings[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

type memOfferRepo struct {
	nextID   int
	offers   map[int]types.SwapOffer
	listings *memListingRepo
}

func (r *memOfferRepo) Create(_ context.Context, offer types.SwapOffer) (types.SwapOffer, error) {
	offer.ID = r.nextID
	r.nextID++
	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	r.offers[offer.ID] = offer
	return offer, nil
}

func (r *memOfferRepo) GetByID(ctx context.Context, id int) (types.SwapOffer, error) {
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

func (r *memOfferRepo) UpdateStatus(ctx context.Context, id int, status types.OfferStatus) (types.SwapOffer, error) {
	offer, ok := r.offers[id]
	if !ok {
		return types.SwapOffer{}, store.ErrNotFound
	}
	offer.Status = status
	offer.UpdatedAt = offer.UpdatedAt.Add(time.Millisecond)
	r.offers[id] = offer
	return r.GetByID(ctx, id)
}

func (r *memOfferRepo) ListByProposer(ctx context.Context, proposerID int) ([]types.SwapOffer, error) {
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

func (r *memOfferRepo) ListByListingOwner(ctx context.Context, ownerID int) ([]types.SwapOffer, error) {
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

type memRatingRepo struct {
	nextID  int
	ratings []types.Rating
}

func (r *memRatingRepo) Create(_ context.Context, rating types.Rating) (types.Rating, error) {
	rating.ID = r.nextID
	r.nextID++
	rating.CreatedAt = time.Now()
	r.ratings = append(r.ratings, rating)
	return rating, nil
}

// interface checks
var (
	_ services.UserRepository    = (*memUserRepo)(nil)
	_ services.ListingRepository = (*memListingRepo)(nil)
	_ services.OfferRepository   = (*memOfferRepo)(nil)
	_ services.RatingRepository  = (*memRatingRepo)(nil)
	_ http.Handler               = (*chi.Mux)(nil)
)
