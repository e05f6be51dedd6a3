package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrUsernameTaken = errors.New("username is taken")

	// Wrong username or password.
	ErrorUnauthorized = errors.New("unauthorized")

	// Session credential errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
