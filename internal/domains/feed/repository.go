package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for activities, preferences, and
// the read-side feed projections over articles, spaces, and users.
type Repository interface {
	// Activity log.
	InsertActivity(ctx context.Context, a *Activity) error
	InsertActivityTx(ctx context.Context, tx pgx.Tx, a *Activity) error
	ListActivities(ctx context.Context, filter *ActivityFilter) ([]Activity, int, error)
	DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// InteractionCounts returns per-target interaction row counts since a
	// point in time, for trending score inputs.
	InteractionCounts(ctx context.Context, targetType TargetType, ids []uuid.UUID, since time.Time) (map[uuid.UUID]int, error)

	// Feed projections. All of them see published articles and public
	// spaces only.
	LatestArticles(ctx context.Context, tags []string, skip, limit int) ([]FeedArticle, int, error)
	ArticlesByTags(ctx context.Context, tags []string, skip, limit int) ([]FeedArticle, int, error)
	FollowedArticles(ctx context.Context, userID uuid.UUID, skip, limit int) ([]FeedArticle, int, error)
	ArticlesSince(ctx context.Context, since time.Time, limit int) ([]FeedArticle, error)
	RisingArticles(ctx context.Context, window time.Duration, limit int) ([]FeedArticle, error)
	ActiveSpaces(ctx context.Context, limit int) ([]FeedSpace, error)
	NewUsers(ctx context.Context, since time.Time, limit int) ([]FeedUser, error)

	// Preferences. Get returns defaults when no row exists yet.
	GetPreferences(ctx context.Context, userID uuid.UUID) (*UserPreferences, error)
	UpsertPreferences(ctx context.Context, p *UserPreferences) error

	// IncrementArticleViews backs the view interaction side effect.
	IncrementArticleViews(ctx context.Context, articleID uuid.UUID) error
}
