// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError    = "error.internal"
	KeyStoreUnavailable = "error.store_unavailable"
	KeyPayloadTooLarge  = "error.payload_too_large"
	KeyRateLimited      = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthSignupSuccess      = "auth.signup_success"

	// Users
	KeyUserNotFound = "user.not_found"

	// Fragrances
	KeyFragranceCreated      = "fragrance.created"
	KeyFragranceDeleted      = "fragrance.deleted"
	KeyFragranceNotFound     = "fragrance.not_found"
	KeyFragranceCreateFailed = "fragrance.create_failed"
	KeyFragranceInvalidID    = "fragrance.invalid_id"

	// Reviews
	KeyReviewNotFound = "review.not_found"
	KeyReviewNotOwner = "review.not_owner"
	KeyReviewInvalid  = "review.invalid_id"

	// Prices
	KeyPriceNotFound = "price.not_found"
	KeyPriceInvalid  = "price.invalid_id"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationFailed  = "validation.failed"
)
