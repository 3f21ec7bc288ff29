package user

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidUsername          = errors.New("username must be 3-32 characters of lowercase letters, numbers, or hyphens")
	ErrUsernameTaken            = errors.New("username is already taken")
	ErrUsernameChangeNotAllowed = errors.New("username can only be set once")
	ErrInvalidExpertiseTag      = errors.New("invalid expertise tag")
	ErrDuplicateEmail           = errors.New("email already registered")
)

// GetErrorResponse maps a domain error to (HTTP status, code, message).
func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", "User not found"
	case errors.Is(err, ErrInvalidUsername):
		return http.StatusBadRequest, "INVALID_USERNAME", ErrInvalidUsername.Error()
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusBadRequest, "USERNAME_TAKEN", "Username is already taken"
	case errors.Is(err, ErrUsernameChangeNotAllowed):
		return http.StatusBadRequest, "USERNAME_LOCKED", "Username can only be set once"
	case errors.Is(err, ErrInvalidExpertiseTag):
		return http.StatusBadRequest, "INVALID_EXPERTISE_TAG", "Invalid expertise tags"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
