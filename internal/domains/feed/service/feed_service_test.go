package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aic-hub-backend/internal/domains/feed"
)

type fakeFeedRepo struct {
	activities []feed.Activity
	prefs      map[uuid.UUID]*feed.UserPreferences
	articles   []feed.FeedArticle
	spaces     []feed.FeedSpace
	users      []feed.FeedUser
	views      map[uuid.UUID]int
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{
		prefs: map[uuid.UUID]*feed.UserPreferences{},
		views: map[uuid.UUID]int{},
	}
}

func (r *fakeFeedRepo) InsertActivity(ctx context.Context, a *feed.Activity) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.activities = append(r.activities, *a)
	return nil
}

func (r *fakeFeedRepo) InsertActivityTx(ctx context.Context, tx pgx.Tx, a *feed.Activity) error {
	return r.InsertActivity(ctx, a)
}

func (r *fakeFeedRepo) ListActivities(ctx context.Context, filter *feed.ActivityFilter) ([]feed.Activity, int, error) {
	return r.activities, len(r.activities), nil
}

func (r *fakeFeedRepo) DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeFeedRepo) InteractionCounts(ctx context.Context, targetType feed.TargetType, ids []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

func (r *fakeFeedRepo) LatestArticles(ctx context.Context, tags []string, skip, limit int) ([]feed.FeedArticle, int, error) {
	return r.articles, len(r.articles), nil
}

func (r *fakeFeedRepo) ArticlesByTags(ctx context.Context, tags []string, skip, limit int) ([]feed.FeedArticle, int, error) {
	var out []feed.FeedArticle
	set := map[string]struct{}{}
	for _, t := range tags {
		set[t] = struct{}{}
	}
	for _, a := range r.articles {
		for _, t := range a.Tags {
			if _, ok := set[t]; ok {
				out = append(out, a)
				break
			}
		}
	}
	return out, len(out), nil
}

func (r *fakeFeedRepo) FollowedArticles(ctx context.Context, userID uuid.UUID, skip, limit int) ([]feed.FeedArticle, int, error) {
	return nil, 0, nil
}

func (r *fakeFeedRepo) ArticlesSince(ctx context.Context, since time.Time, limit int) ([]feed.FeedArticle, error) {
	return r.articles, nil
}

func (r *fakeFeedRepo) RisingArticles(ctx context.Context, window time.Duration, limit int) ([]feed.FeedArticle, error) {
	return r.articles, nil
}

func (r *fakeFeedRepo) ActiveSpaces(ctx context.Context, limit int) ([]feed.FeedSpace, error) {
	return r.spaces, nil
}

func (r *fakeFeedRepo) NewUsers(ctx context.Context, since time.Time, limit int) ([]feed.FeedUser, error) {
	return r.users, nil
}

func (r *fakeFeedRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (*feed.UserPreferences, error) {
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return &feed.UserPreferences{UserID: userID, PreferredTags: []string{}, FeedView: feed.ViewLatest}, nil
}

func (r *fakeFeedRepo) UpsertPreferences(ctx context.Context, p *feed.UserPreferences) error {
	r.prefs[p.UserID] = p
	return nil
}

func (r *fakeFeedRepo) IncrementArticleViews(ctx context.Context, articleID uuid.UUID) error {
	r.views[articleID]++
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

// Get always misses; the tests assert on Set calls instead.
func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.entries[key] = []byte{1}
	c.sets++
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

func feedArticle(views int, ageHours float64, tags ...string) feed.FeedArticle {
	published := time.Now().Add(-time.Duration(ageHours * float64(time.Hour)))
	return feed.FeedArticle{
		ID:          uuid.New(),
		Title:       "a",
		Slug:        "a",
		Tags:        tags,
		ViewCount:   views,
		PublishedAt: &published,
	}
}

func TestTrending_InvalidRange(t *testing.T) {
	svc := NewFeedService(newFakeFeedRepo(), newFakeCache())

	_, err := svc.Trending(context.Background(), "90d")
	assert.ErrorIs(t, err, feed.ErrInvalidTimeRange)
}

func TestTrending_RanksFreshOverStale(t *testing.T) {
	repo := newFakeFeedRepo()
	repo.articles = []feed.FeedArticle{
		feedArticle(100, 23),
		feedArticle(100, 1),
	}
	cache := newFakeCache()
	svc := NewFeedService(repo, cache)

	resp, err := svc.Trending(context.Background(), "24h")
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	assert.Equal(t, repo.articles[1].ID, resp.Items[0].Article.ID)
	assert.Greater(t, resp.Items[0].Score, resp.Items[1].Score)
	assert.Equal(t, 1, cache.sets)
}

func TestTrending_MixesSpaces(t *testing.T) {
	repo := newFakeFeedRepo()
	repo.articles = []feed.FeedArticle{feedArticle(1, 20)}
	repo.spaces = []feed.FeedSpace{
		{ID: uuid.New(), Name: "big", Slug: "big", MemberCount: 500, ArticleCount: 100},
	}
	svc := NewFeedService(repo, newFakeCache())

	resp, err := svc.Trending(context.Background(), "7d")
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	assert.Equal(t, feed.TargetSpace, resp.Items[0].Type)
	assert.Equal(t, 5500.0, resp.Items[0].Score)
}

func TestFeed_DefaultViewFromPreferences(t *testing.T) {
	repo := newFakeFeedRepo()
	userID := uuid.New()
	repo.prefs[userID] = &feed.UserPreferences{UserID: userID, FeedView: feed.ViewTrending}
	svc := NewFeedService(repo, newFakeCache())

	resp, err := svc.Feed(context.Background(), userID, &feed.FeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, feed.ViewTrending, resp.View)
}

func TestFeed_UnknownView(t *testing.T) {
	svc := NewFeedService(newFakeFeedRepo(), newFakeCache())

	_, err := svc.Feed(context.Background(), uuid.Nil, &feed.FeedRequest{View: "newest"})
	assert.ErrorIs(t, err, feed.ErrInvalidFeedView)
}

func TestFeed_FollowingRequiresAuth(t *testing.T) {
	svc := NewFeedService(newFakeFeedRepo(), newFakeCache())

	_, err := svc.Feed(context.Background(), uuid.Nil, &feed.FeedRequest{View: feed.ViewFollowing})
	assert.ErrorIs(t, err, feed.ErrInvalidFeedView)
}

func TestUpdatePreferences_RejectsRecommended(t *testing.T) {
	svc := NewFeedService(newFakeFeedRepo(), newFakeCache())
	view := feed.ViewRecommended

	_, err := svc.UpdatePreferences(context.Background(), uuid.New(), &feed.UpdatePreferencesRequest{FeedView: &view})
	assert.ErrorIs(t, err, feed.ErrInvalidFeedView)
}

func TestUpdatePreferences_Persists(t *testing.T) {
	repo := newFakeFeedRepo()
	svc := NewFeedService(repo, newFakeCache())
	userID := uuid.New()
	view := feed.ViewTrending
	digest := true

	prefs, err := svc.UpdatePreferences(context.Background(), userID, &feed.UpdatePreferencesRequest{
		PreferredTags: []string{"LLMs", "RAG"},
		FeedView:      &view,
		EmailDigest:   &digest,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"LLMs", "RAG"}, prefs.PreferredTags)
	assert.Equal(t, feed.ViewTrending, prefs.FeedView)
	assert.True(t, prefs.EmailDigest)
	assert.Contains(t, repo.prefs, userID)
}

func TestRecommendations_PreferredTagOverlap(t *testing.T) {
	repo := newFakeFeedRepo()
	userID := uuid.New()
	repo.prefs[userID] = &feed.UserPreferences{UserID: userID, PreferredTags: []string{"Agents"}, FeedView: feed.ViewLatest}
	repo.articles = []feed.FeedArticle{
		feedArticle(10, 2, "Agents"),
		feedArticle(50, 2, "Speech"),
	}
	svc := NewFeedService(repo, newFakeCache())

	articles, err := svc.Recommendations(context.Background(), userID, 20)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Contains(t, articles[0].Tags, "Agents")
}

func TestRecordInteraction(t *testing.T) {
	repo := newFakeFeedRepo()
	svc := NewFeedService(repo, newFakeCache())
	userID := uuid.New()
	articleID := uuid.New()
	duration := 42

	t.Run("unknown type rejected", func(t *testing.T) {
		err := svc.RecordInteraction(context.Background(), userID, &feed.InteractionRequest{
			Type: "hover", TargetType: "article", TargetID: articleID,
		})
		assert.ErrorIs(t, err, feed.ErrInvalidInteraction)
		assert.Empty(t, repo.activities)
	})

	t.Run("view bumps article views", func(t *testing.T) {
		err := svc.RecordInteraction(context.Background(), userID, &feed.InteractionRequest{
			Type: feed.InteractionView, TargetType: "article", TargetID: articleID, DurationSeconds: &duration,
		})
		require.NoError(t, err)
		require.Len(t, repo.activities, 1)
		assert.Equal(t, "article_viewed", repo.activities[0].Action)
		assert.Equal(t, 42, repo.activities[0].Metadata["duration_seconds"])
		assert.Equal(t, 1, repo.views[articleID])
	})

	t.Run("save leaves views alone", func(t *testing.T) {
		err := svc.RecordInteraction(context.Background(), userID, &feed.InteractionRequest{
			Type: feed.InteractionSave, TargetType: "article", TargetID: articleID,
		})
		require.NoError(t, err)
		assert.Equal(t, "article_saved", repo.activities[1].Action)
		assert.Equal(t, 1, repo.views[articleID])
	})
}
