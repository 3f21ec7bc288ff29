package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrSignupFailed is deliberately unspecific. Returning a distinct
	// error for an existing email would let anyone probe which addresses
	// have accounts.
	ErrSignupFailed = errors.New("unable to create account")

	// ErrInvalidCredentials covers missing user, password-less OAuth
	// accounts, and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTooManyAttempts      = errors.New("too many attempts, try again later")
	ErrInvalidState         = errors.New("invalid or expired oauth state")
	ErrMissingCallbackParam = errors.New("missing code or state parameter")
	ErrProviderUnavailable  = errors.New("authentication provider unavailable")
)

// GetErrorResponse maps a domain error to (HTTP status, code, message).
func GetErrorResponse(err error) (int, string, string) {
	var rateErr *RateLimitError
	switch {
	case errors.As(err, &rateErr), errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests, "RATE_LIMITED", ErrTooManyAttempts.Error()
	case errors.Is(err, ErrSignupFailed):
		return http.StatusBadRequest, "SIGNUP_FAILED", ErrSignupFailed.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", ErrInvalidCredentials.Error()
	case errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE", ErrInvalidState.Error()
	case errors.Is(err, ErrMissingCallbackParam):
		return http.StatusBadRequest, "MISSING_PARAMETER", ErrMissingCallbackParam.Error()
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusBadGateway, "PROVIDER_UNAVAILABLE", ErrProviderUnavailable.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
