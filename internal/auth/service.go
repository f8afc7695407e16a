package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service implements registration and credential verification on top of a
// UserStore. Token issuance is delegated to GenerateToken.
type Service struct {
	store    UserStore
	tokenTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL overrides the issued-token validity window.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// NewService constructs a Service with the given credential store.
func NewService(store UserStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:    store,
		tokenTTL: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates an account and returns a freshly issued token, so a new
// user is signed in immediately.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if password == "" {
		return "", ErrMissingPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	userID, err := s.store.CreateUser(ctx, username, hash)
	if err != nil {
		return "", err
	}

	token, _, err := GenerateToken(userID, s.tokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Login verifies credentials and issues a token. An unknown username and a
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, _, err := GenerateToken(user.ID, s.tokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
