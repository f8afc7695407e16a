package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the credential rows were written with.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The plaintext is
// never persisted or logged.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrMissingPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
