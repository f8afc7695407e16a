package auth

import (
	"context"
	"sync"
	"time"
)

// User is a registered account. The password is held only as a bcrypt
// digest; accounts are immutable once created.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore describes the persistence operations the auth service needs.
type UserStore interface {
	// CreateUser persists a new account and returns its id. Returns
	// ErrUsernameTaken when the username is already registered; uniqueness
	// is enforced by storage, not pre-checked, so concurrent registrations
	// cannot race past it.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	// FindByUsername is an exact, case-sensitive match. Returns ErrNotFound
	// when no such account exists.
	FindByUsername(ctx context.Context, username string) (User, error)
}

// InMemoryUsers implements UserStore for tests and local runs.
type InMemoryUsers struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]User
}

// NewInMemoryUsers creates an empty credential store.
func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{byName: make(map[string]User)}
}

func (s *InMemoryUsers) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[username]; ok {
		return 0, ErrUsernameTaken
	}
	s.nextID++
	s.byName[username] = User{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	return s.nextID, nil
}

func (s *InMemoryUsers) FindByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byName[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
