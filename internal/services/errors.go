// internal/services/errors.go
package services

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrFragranceNotFound  = errors.New("fragrance not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrPriceNotFound      = errors.New("price not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotReviewOwner     = errors.New("review belongs to another user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")

	// ErrCreateFailed is the only error CreateFragrance surfaces once its
	// transaction has opened.
	ErrCreateFailed = errors.New("failed to create fragrance")
)
