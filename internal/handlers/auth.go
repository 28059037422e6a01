package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/swapcycle/apiserver/internal/services"
	"github.com/swapcycle/apiserver/types"
	"go.uber.org/zap"
)

// AuthHandler provides registration, login, and the bearer-token guard.
type AuthHandler struct {
	identity *services.IdentityService
	logger   *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(identity *services.IdentityService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, identity *services.IdentityService, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) {
	handler := NewAuthHandler(identity, logger)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(authMiddleware).Get("/me", handler.Me)
}

// RequireAuth constructs the request-level gate: it resolves the bearer
// credential to an identity and rejects the request before it reaches a
// service. Mandatory on every mutating route.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, message := bearerToken(r)
			if message != "" {
				writeError(w, http.StatusUnauthorized, message)
				return
			}

			identity, err := services.ParseToken(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Register creates a new user account and returns a credential.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, user, err := h.identity.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login verifies credentials and returns a fresh credential.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.identity.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// bearerToken extracts the token from an Authorization header of the
// exact shape "Bearer <token>". The returned message distinguishes a
// missing header from a malformed one.
func bearerToken(r *http.Request) (token, message string) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", "Missing Authorization"
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "Bad Authorization"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "Bad Authorization"
	}
	return token, ""
}
