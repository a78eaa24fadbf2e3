package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/repository"
	"github.com/pvaldes/travelbooking/internal/token"
	"golang.org/x/crypto/bcrypt"
)

type IdentityUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Verify(tokenString string) (*domain.Claims, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type IdentityService struct {
	users  repository.UserRepository
	tokens *token.Authority
}

func NewIdentityService(users repository.UserRepository, tokens *token.Authority) *IdentityService {
	return &IdentityService{users: users, tokens: tokens}
}

func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("email and password required: %w", apperr.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a fresh token. A missing user and a
// wrong password are the same failure to the caller.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password required: %w", apperr.ErrInvalidRequest)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthenticated)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthenticated)
	}

	return s.tokens.Issue(domain.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

// Verify resolves a token locally; the identity service owns the secret.
func (s *IdentityService) Verify(tokenString string) (*domain.Claims, error) {
	return s.tokens.Verify(tokenString)
}

// EnsureAdmin seeds the bootstrap admin account if it does not exist yet.
func (s *IdentityService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	_, err = s.Register(ctx, RegisterInput{Email: email, Password: password, IsAdmin: true})
	if errors.Is(err, apperr.ErrConflict) {
		// Another replica seeded it first.
		return nil
	}
	if err == nil {
		slog.Info("seed admin created", "email", email)
	}
	return err
}

var _ IdentityUseCase = (*IdentityService)(nil)
