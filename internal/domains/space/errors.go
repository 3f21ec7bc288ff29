package space

import (
	"errors"
	"net/http"
)

var (
	ErrSpaceNotFound       = errors.New("space not found")
	ErrAccessDenied        = errors.New("access denied to private space")
	ErrNotOwner            = errors.New("only the owner can perform this action")
	ErrNotModerator        = errors.New("owner or moderator role required")
	ErrNotMember           = errors.New("not a member of this space")
	ErrAlreadyMember       = errors.New("already a member of this space")
	ErrOwnerCannotLeave    = errors.New("the owner cannot leave their space")
	ErrCannotChangeOwner   = errors.New("the owner role cannot be reassigned")
	ErrInvalidRole         = errors.New("role must be moderator or member")
	ErrInvalidTag          = errors.New("invalid space tag")
	ErrArticleNotShareable = errors.New("article does not exist or is not published")
	ErrAlreadyShared       = errors.New("article already shared to this space")
	ErrArticleNotInSpace   = errors.New("article is not shared to this space")
)

// GetErrorResponse maps a domain error to (HTTP status, code, message).
func GetErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrSpaceNotFound):
		return http.StatusNotFound, "SPACE_NOT_FOUND", "Space not found"
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden, "ACCESS_DENIED", ErrAccessDenied.Error()
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden, "NOT_OWNER", ErrNotOwner.Error()
	case errors.Is(err, ErrNotModerator):
		return http.StatusForbidden, "NOT_MODERATOR", ErrNotModerator.Error()
	case errors.Is(err, ErrNotMember):
		return http.StatusForbidden, "NOT_MEMBER", ErrNotMember.Error()
	case errors.Is(err, ErrAlreadyMember):
		return http.StatusConflict, "ALREADY_MEMBER", ErrAlreadyMember.Error()
	case errors.Is(err, ErrOwnerCannotLeave):
		return http.StatusBadRequest, "OWNER_CANNOT_LEAVE", ErrOwnerCannotLeave.Error()
	case errors.Is(err, ErrCannotChangeOwner):
		return http.StatusBadRequest, "CANNOT_CHANGE_OWNER", ErrCannotChangeOwner.Error()
	case errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest, "INVALID_ROLE", ErrInvalidRole.Error()
	case errors.Is(err, ErrInvalidTag):
		return http.StatusBadRequest, "INVALID_TAG", ErrInvalidTag.Error()
	case errors.Is(err, ErrArticleNotShareable):
		return http.StatusBadRequest, "ARTICLE_NOT_SHAREABLE", ErrArticleNotShareable.Error()
	case errors.Is(err, ErrAlreadyShared):
		return http.StatusConflict, "ALREADY_SHARED", ErrAlreadyShared.Error()
	case errors.Is(err, ErrArticleNotInSpace):
		return http.StatusNotFound, "ARTICLE_NOT_IN_SPACE", ErrArticleNotInSpace.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}
