package space

import (
	"context"

	"github.com/google/uuid"
)

// Service implements space operations. viewerID is uuid.Nil for anonymous
// requests; private spaces are then invisible.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *CreateRequest) (*Response, error)
	List(ctx context.Context, filter *ListFilter) (*ListResponse, error)
	GetBySlug(ctx context.Context, slug string, viewerID uuid.UUID) (*Response, error)
	Update(ctx context.Context, id, userID uuid.UUID, req *UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	Join(ctx context.Context, id, userID uuid.UUID) (Role, error)
	Leave(ctx context.Context, id, userID uuid.UUID) error
	Members(ctx context.Context, id, viewerID uuid.UUID, roleFilter Role, skip, limit int) ([]MemberResponse, int, error)
	UpdateMemberRole(ctx context.Context, id, actorID, memberID uuid.UUID, role Role) error

	ShareArticle(ctx context.Context, id, userID uuid.UUID, req *ShareArticleRequest) error
	ListArticles(ctx context.Context, id, viewerID uuid.UUID, pinnedFirst bool, skip, limit int) ([]SharedArticleResponse, int, error)
	PinArticle(ctx context.Context, id, actorID, articleID uuid.UUID, pinned bool) error
	RemoveArticle(ctx context.Context, id, actorID, articleID uuid.UUID) error
}
