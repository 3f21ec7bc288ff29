package space

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for spaces, memberships, and
// shared articles. Mutations carry Tx variants so the service can keep
// counters, tag usage, the search index, and activities consistent.
type Repository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, s *Space) (*Space, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Space, error)
	GetBySlug(ctx context.Context, slug string) (*Space, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	List(ctx context.Context, filter *ListFilter) ([]Space, int, error)

	UpdateTx(ctx context.Context, tx pgx.Tx, s *Space) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// Membership.
	GetMemberRole(ctx context.Context, spaceID, userID uuid.UUID) (Role, bool, error)
	AddMemberTx(ctx context.Context, tx pgx.Tx, spaceID, userID uuid.UUID, role Role) error
	RemoveMemberTx(ctx context.Context, tx pgx.Tx, spaceID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, spaceID, userID uuid.UUID, role Role) error
	ListMembers(ctx context.Context, spaceID uuid.UUID, roleFilter Role, skip, limit int) ([]MemberResponse, int, error)

	// AdjustMemberCountTx applies delta to member_count within tx.
	AdjustMemberCountTx(ctx context.Context, tx pgx.Tx, spaceID uuid.UUID, delta int) error
	AdjustArticleCountTx(ctx context.Context, tx pgx.Tx, spaceID uuid.UUID, delta int) error

	// Shared articles.
	// ArticleIsPublished reports whether the article exists in published
	// state, without coupling to the article domain's service.
	ArticleIsPublished(ctx context.Context, articleID uuid.UUID) (bool, error)
	GetSharedArticle(ctx context.Context, spaceID, articleID uuid.UUID) (*SharedArticle, error)
	ShareArticleTx(ctx context.Context, tx pgx.Tx, share *SharedArticle) error
	RemoveSharedArticleTx(ctx context.Context, tx pgx.Tx, spaceID, articleID uuid.UUID) error
	SetPinned(ctx context.Context, spaceID, articleID uuid.UUID, pinned bool) error
	ListSharedArticles(ctx context.Context, spaceID uuid.UUID, pinnedFirst bool, skip, limit int) ([]SharedArticleResponse, int, error)

	// OwnersByID resolves owner summaries for responses.
	OwnersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Owner, error)
}
