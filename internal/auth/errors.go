package auth

import "errors"

var (
	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrNotFound        = errors.New("auth: not found")
	ErrUsernameTaken   = errors.New("auth: username already exists")
	ErrMissingPassword = errors.New("auth: password is required")
	ErrInvalidInput    = errors.New("auth: invalid input")
)
