package feed

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidFeedView    = errors.New("invalid feed view")
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidInteraction = errors.New("invalid interaction")
	ErrInvalidTag         = errors.New("invalid tag")
)

func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrInvalidFeedView):
		return http.StatusBadRequest, "INVALID_FEED_VIEW", "Feed view must be latest, trending, or following"
	case errors.Is(err, ErrInvalidTimeRange):
		return http.StatusBadRequest, "INVALID_TIME_RANGE", "Time range must be 24h, 7d, or 30d"
	case errors.Is(err, ErrInvalidInteraction):
		return http.StatusBadRequest, "INVALID_INTERACTION", "Unknown interaction or target type"
	case errors.Is(err, ErrInvalidTag):
		return http.StatusBadRequest, "INVALID_TAG", "Tag is not part of the taxonomy"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
