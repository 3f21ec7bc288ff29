package feed

import (
	"context"

	"github.com/google/uuid"
)

// Service implements feed, trending, discovery, activity, preference, and
// interaction operations. userID is uuid.Nil for anonymous requests.
type Service interface {
	Feed(ctx context.Context, userID uuid.UUID, req *FeedRequest) (*FeedResponse, error)
	Trending(ctx context.Context, timeRange string) (*TrendingResponse, error)
	Discover(ctx context.Context) (*DiscoverResponse, error)
	Activity(ctx context.Context, filter *ActivityFilter) (*ActivityResponse, error)
	Recommendations(ctx context.Context, userID uuid.UUID, limit int) ([]FeedArticle, error)

	GetPreferences(ctx context.Context, userID uuid.UUID) (*UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *UpdatePreferencesRequest) (*UserPreferences, error)

	RecordInteraction(ctx context.Context, userID uuid.UUID, req *InteractionRequest) error
}
