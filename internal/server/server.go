package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swapcycle/apiserver/config"
	"github.com/swapcycle/apiserver/internal/db"
	"github.com/swapcycle/apiserver/internal/handlers"
	"github.com/swapcycle/apiserver/internal/services"
	"github.com/swapcycle/apiserver/internal/store"
	"go.uber.org/zap"
)

// insecureDevSecret signs tokens when JWT_SECRET is unset outside
// production. Never a silent default: New logs a loud warning.
const insecureDevSecret = "swapcycle-insecure-dev-secret"

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	logger     *zap.Logger
}

// New constructs a Server with basic middleware and defaults. The store
// connection is opened here and released on Shutdown.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	secret, err := resolveJWTSecret(cfg, logger)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	listingRepo := store.NewListingRepository(dbConn)
	offerRepo := store.NewOfferRepository(dbConn)
	ratingRepo := store.NewRatingRepository(dbConn)

	identityService := services.NewIdentityService(userRepo, secret)
	listingService := services.NewListingService(listingRepo)
	offerService := services.NewOfferService(offerRepo, listingRepo)
	ratingService := services.NewRatingService(ratingRepo, userRepo)

	authMiddleware := handlers.RequireAuth(secret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, identityService, authMiddleware, logger)
	})
	router.Route("/listings", func(r chi.Router) {
		handlers.ListingRouter(r, listingService, offerService, authMiddleware, logger)
	})
	router.Route("/offers", func(r chi.Router) {
		handlers.OfferRouter(r, offerService, authMiddleware, logger)
	})
	router.Route("/ratings", func(r chi.Router) {
		handlers.RatingRouter(r, ratingService, authMiddleware, logger)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		logger:     logger,
	}, nil
}

func resolveJWTSecret(cfg config.Config, logger *zap.Logger) ([]byte, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret != "" {
		return []byte(secret), nil
	}
	if cfg.Env == "production" {
		return nil, errors.New("JWT_SECRET is required in production")
	}
	logger.Warn("JWT_SECRET not set, signing tokens with the insecure development secret",
		zap.String("env", cfg.Env))
	return []byte(insecureDevSecret), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
