package article

import (
	"errors"
	"net/http"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrNotAuthor       = errors.New("only the author can modify this article")
	ErrInvalidTag      = errors.New("invalid article tag")
	ErrTooManyTags     = errors.New("articles may carry at most 5 tags")
	ErrSummaryTooLong  = errors.New("summary must be 500 characters or less")
)

// GetErrorResponse maps a domain error to (HTTP status, code, message).
func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrArticleNotFound):
		return http.StatusNotFound, "ARTICLE_NOT_FOUND", "Article not found"
	case errors.Is(err, ErrNotAuthor):
		return http.StatusForbidden, "NOT_AUTHOR", ErrNotAuthor.Error()
	case errors.Is(err, ErrInvalidTag):
		return http.StatusBadRequest, "INVALID_TAG", ErrInvalidTag.Error()
	case errors.Is(err, ErrTooManyTags):
		return http.StatusBadRequest, "TOO_MANY_TAGS", ErrTooManyTags.Error()
	case errors.Is(err, ErrSummaryTooLong):
		return http.StatusBadRequest, "SUMMARY_TOO_LONG", ErrSummaryTooLong.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
