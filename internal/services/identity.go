package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/swapcycle/apiserver/apperr"
	"github.com/swapcycle/apiserver/internal/store"
	"github.com/swapcycle/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the validity window of issued credentials.
const DefaultTokenTTL = 30 * 24 * time.Hour

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// IdentityService registers accounts, verifies credentials, and issues
// bearer tokens.
type IdentityService struct {
	repo     UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewIdentityService(repo UserRepository, secret []byte) *IdentityService {
	return &IdentityService{
		repo:     repo,
		secret:   secret,
		tokenTTL: DefaultTokenTTL,
	}
}

// Register creates an account and returns a fresh credential. The raw
// password is hashed before it touches the store.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (string, types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", types.User{}, apperr.Validation("email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", types.User{}, apperr.Internal(err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
	})
	if err != nil {
		return "", types.User{}, translateStoreErr(err, "user not found", "email already registered")
	}

	token, err := IssueToken(user.ID, user.Email, s.secret, s.tokenTTL)
	if err != nil {
		return "", types.User{}, apperr.Internal(err)
	}
	return token, user, nil
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password yield the identical error so callers cannot tell which
// check failed.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", types.User{}, apperr.Validation("email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", types.User{}, apperr.Auth("Invalid credentials")
		}
		return "", types.User{}, apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", types.User{}, apperr.Auth("Invalid credentials")
	}

	token, err := IssueToken(user.ID, user.Email, s.secret, s.tokenTTL)
	if err != nil {
		return "", types.User{}, apperr.Internal(err)
	}
	return token, user, nil
}

// GetByID loads a user record.
func (s *IdentityService) GetByID(ctx context.Context, id int) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, translateStoreErr(err, "user not found", "conflict")
	}
	return user, nil
}
