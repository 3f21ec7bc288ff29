package tag

import (
	"errors"
	"net/http"
)

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrInvalidPeriod = errors.New("invalid reset period")
)

// GetErrorResponse maps a domain error to (HTTP status, code, message).
func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrTagNotFound):
		return http.StatusNotFound, "TAG_NOT_FOUND", "Tag not found"
	case errors.Is(err, ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", "Reset period must be week or month"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
