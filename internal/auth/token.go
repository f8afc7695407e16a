package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer            = "taskdeck"
	secretEnvVariable = "TASKDECK_AUTH_SECRET"

	// DefaultTokenTTL is the validity window of an issued token.
	DefaultTokenTTL = 24 * time.Hour
)

var (
	// ErrMissingSecret indicates TASKDECK_AUTH_SECRET is not configured.
	// There is deliberately no fallback secret; the server refuses to start
	// without one.
	ErrMissingSecret = errors.New("auth secret is not configured")

	secretMu sync.Mutex
	secret   cachedSecret
)

type cachedSecret struct {
	value []byte
	err   error
	ready bool
}

// Claims is the JWT payload bound to an issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 JWT asserting the given user identity.
func GenerateToken(userID int64, ttl time.Duration) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("userID is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("ttl must be greater than zero")
	}
	secretBytes, err := loadSecret()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAndValidate verifies signature and claims and returns the embedded
// user id. It is a pure function of (token, secret, current time); any
// failure collapses to ErrInvalidToken.
func ParseAndValidate(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrInvalidToken
	}
	secretBytes, err := loadSecret()
	if err != nil {
		return 0, err
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secretBytes, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := validateClaims(claims)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func validateClaims(claims *Claims) (int64, error) {
	if claims.Issuer != issuer {
		return 0, fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(claims.Subject), 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("subject is not a user id")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return 0, errors.New("timestamps missing")
	}
	now := time.Now().UTC()
	// Expiry is an exclusive upper bound: a token presented exactly at its
	// expiration instant is already invalid.
	if !now.Before(claims.ExpiresAt.Time) {
		return 0, errors.New("token expired")
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return 0, errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return 0, errors.New("token expiry precedes issued-at")
	}
	return userID, nil
}

// EnsureSecret reports whether a signing secret is configured. Called at
// startup so a misconfigured deployment fails fast instead of issuing
// tokens with a predictable key.
func EnsureSecret() error {
	_, err := loadSecret()
	return err
}

func loadSecret() ([]byte, error) {
	secretMu.Lock()
	defer secretMu.Unlock()
	if secret.ready {
		return secret.value, secret.err
	}
	raw := strings.TrimSpace(os.Getenv(secretEnvVariable))
	if raw == "" {
		secret.err = ErrMissingSecret
		secret.ready = true
		return nil, secret.err
	}
	secret.value = []byte(raw)
	secret.err = nil
	secret.ready = true
	return secret.value, nil
}

// ResetSecretForTests clears the cached secret value. Only intended for test use.
func ResetSecretForTests() {
	secretMu.Lock()
	defer secretMu.Unlock()
	secret = cachedSecret{}
}
