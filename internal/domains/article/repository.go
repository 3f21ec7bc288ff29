package article

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for articles. Mutations have Tx
// variants because the service composes them with tag counter and search
// index writes.
type Repository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, a *Article) (*Article, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)

	// SlugExists reports whether slug is taken by an article other than
	// excludeID (uuid.Nil means no exclusion).
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	List(ctx context.Context, filter *ListFilter) ([]Article, int, error)
	ListDrafts(ctx context.Context, authorID uuid.UUID) ([]Article, error)

	UpdateTx(ctx context.Context, tx pgx.Tx, a *Article) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// AuthorsByID resolves the author summaries embedded in responses.
	AuthorsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Author, error)
}
