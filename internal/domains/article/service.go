package article

import (
	"context"

	"github.com/google/uuid"
)

// Service implements article operations. Articles are always created as
// drafts; Publish makes them visible, counts their tags, and indexes them.
type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, req *CreateRequest) (*Response, error)
	List(ctx context.Context, filter *ListFilter) (*ListResponse, error)

	// GetBySlug returns the article, bumping the view counter for
	// published ones. Drafts are only visible to their author.
	GetBySlug(ctx context.Context, slug string, viewerID uuid.UUID) (*Response, error)

	Drafts(ctx context.Context, authorID uuid.UUID) ([]Response, error)

	Update(ctx context.Context, id, authorID uuid.UUID, req *UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) error

	Publish(ctx context.Context, id, authorID uuid.UUID) (*Response, error)
	Unpublish(ctx context.Context, id, authorID uuid.UUID) (*Response, error)
}
