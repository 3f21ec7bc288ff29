package search

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidEntityType = errors.New("invalid entity type")
	ErrEntityNotFound    = errors.New("entity not found")
)

func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrInvalidEntityType):
		return http.StatusBadRequest, "INVALID_ENTITY_TYPE", "Entity type must be article, space, or user"
	case errors.Is(err, ErrEntityNotFound):
		return http.StatusNotFound, "ENTITY_NOT_FOUND", "Entity not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
