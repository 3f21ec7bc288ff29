package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aic-hub-backend/internal/domains/feed"
	"aic-hub-backend/pkg/cache"
	"aic-hub-backend/pkg/logger"
)

const (
	trendingCacheTTL = 15 * time.Minute
	discoverCacheTTL = time.Hour

	risingWindow   = 6 * time.Hour
	newUserWindow  = 7 * 24 * time.Hour
	discoveryLimit = 10
)

var trendingRanges = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

type feedService struct {
	repo  feed.Repository
	cache cache.Cache
	now   func() time.Time
}

func NewFeedService(repo feed.Repository, c cache.Cache) feed.Service {
	return &feedService{repo: repo, cache: c, now: time.Now}
}

// activityRecorder is the write-side adapter handed to the article and space
// services so they can log activities inside their own transactions.
type activityRecorder struct {
	repo feed.Repository
}

func NewActivityRecorder(repo feed.Repository) feed.ActivityRecorder {
	return &activityRecorder{repo: repo}
}

func (r *activityRecorder) Record(ctx context.Context, a *feed.Activity) error {
	return r.repo.InsertActivity(ctx, a)
}

func (r *activityRecorder) RecordTx(ctx context.Context, tx pgx.Tx, a *feed.Activity) error {
	return r.repo.InsertActivityTx(ctx, tx, a)
}

func (s *feedService) Feed(ctx context.Context, userID uuid.UUID, req *feed.FeedRequest) (*feed.FeedResponse, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Skip < 0 {
		req.Skip = 0
	}

	view := req.View
	if view == "" {
		view = feed.ViewLatest
		if userID != uuid.Nil {
			prefs, err := s.repo.GetPreferences(ctx, userID)
			if err != nil {
				return nil, err
			}
			view = prefs.FeedView
		}
	}

	var (
		articles []feed.FeedArticle
		total    int
		err      error
	)

	switch view {
	case feed.ViewLatest:
		articles, total, err = s.repo.LatestArticles(ctx, req.Tags, req.Skip, req.Limit)

	case feed.ViewTrending:
		trending, terr := s.Trending(ctx, "24h")
		if terr != nil {
			return nil, terr
		}
		for _, item := range trending.Items {
			if item.Article != nil {
				articles = append(articles, *item.Article)
			}
		}
		total = len(articles)
		articles = paginate(articles, req.Skip, req.Limit)

	case feed.ViewFollowing:
		if userID == uuid.Nil {
			return nil, feed.ErrInvalidFeedView
		}
		articles, total, err = s.repo.FollowedArticles(ctx, userID, req.Skip, req.Limit)

	case feed.ViewRecommended:
		if userID == uuid.Nil {
			return nil, feed.ErrInvalidFeedView
		}
		articles, err = s.Recommendations(ctx, userID, req.Limit)
		total = len(articles)

	default:
		return nil, feed.ErrInvalidFeedView
	}
	if err != nil {
		return nil, err
	}

	if articles == nil {
		articles = []feed.FeedArticle{}
	}
	return &feed.FeedResponse{
		View:     view,
		Articles: articles,
		Total:    total,
		Skip:     req.Skip,
		Limit:    req.Limit,
	}, nil
}

func (s *feedService) Trending(ctx context.Context, timeRange string) (*feed.TrendingResponse, error) {
	if timeRange == "" {
		timeRange = "24h"
	}
	window, ok := trendingRanges[timeRange]
	if !ok {
		return nil, feed.ErrInvalidTimeRange
	}

	cacheKey := "feed:trending:" + timeRange
	var cached feed.TrendingResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		cached.Cached = true
		return &cached, nil
	}

	now := s.now()
	since := now.Add(-window)

	candidates, err := s.repo.ArticlesSince(ctx, since, 200)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
	}
	interactions := map[uuid.UUID]int{}
	if len(ids) > 0 {
		interactions, err = s.repo.InteractionCounts(ctx, feed.TargetArticle, ids, since)
		if err != nil {
			return nil, err
		}
	}

	items := make([]feed.TrendingItem, 0, len(candidates)+discoveryLimit)
	for i := range candidates {
		a := candidates[i]
		ageHours := now.Sub(valueOr(a.PublishedAt, now)).Hours()
		a.Score = feed.TrendingScore(a.ViewCount, ageHours, interactions[a.ID])
		items = append(items, feed.TrendingItem{
			Type:    feed.TargetArticle,
			Score:   a.Score,
			Article: &a,
		})
	}

	spaces, err := s.repo.ActiveSpaces(ctx, discoveryLimit)
	if err != nil {
		return nil, err
	}
	for i := range spaces {
		sp := spaces[i]
		sp.Score = feed.SpaceActivityScore(sp.MemberCount, sp.ArticleCount)
		items = append(items, feed.TrendingItem{
			Type:  feed.TargetSpace,
			Score: sp.Score,
			Space: &sp,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > 50 {
		items = items[:50]
	}

	resp := &feed.TrendingResponse{
		Range:     timeRange,
		Items:     items,
		FetchedAt: now,
	}
	if err := s.cache.Set(ctx, cacheKey, resp, trendingCacheTTL); err != nil {
		logger.Warn("failed to cache trending feed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func (s *feedService) Discover(ctx context.Context) (*feed.DiscoverResponse, error) {
	const cacheKey = "feed:discover"
	var cached feed.DiscoverResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	rising, err := s.repo.RisingArticles(ctx, risingWindow, discoveryLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range rising {
		ageHours := now.Sub(valueOr(rising[i].PublishedAt, now)).Hours()
		rising[i].Score = feed.ViewVelocity(rising[i].ViewCount, ageHours)
	}
	sort.SliceStable(rising, func(i, j int) bool {
		return rising[i].Score > rising[j].Score
	})

	spaces, err := s.repo.ActiveSpaces(ctx, discoveryLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.NewUsers(ctx, now.Add(-newUserWindow), discoveryLimit)
	if err != nil {
		return nil, err
	}

	if rising == nil {
		rising = []feed.FeedArticle{}
	}
	if spaces == nil {
		spaces = []feed.FeedSpace{}
	}
	if users == nil {
		users = []feed.FeedUser{}
	}

	resp := &feed.DiscoverResponse{
		RisingArticles: rising,
		ActiveSpaces:   spaces,
		NewUsers:       users,
		RefreshAt:      now.Add(discoverCacheTTL),
	}
	if err := s.cache.Set(ctx, cacheKey, resp, discoverCacheTTL); err != nil {
		logger.Warn("failed to cache discovery feed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func (s *feedService) Activity(ctx context.Context, filter *feed.ActivityFilter) (*feed.ActivityResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	activities, total, err := s.repo.ListActivities(ctx, filter)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []feed.Activity{}
	}
	return &feed.ActivityResponse{
		Activities: activities,
		Total:      total,
		Skip:       filter.Skip,
		Limit:      filter.Limit,
	}, nil
}

func (s *feedService) Recommendations(ctx context.Context, userID uuid.UUID, limit int) ([]feed.FeedArticle, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(prefs.PreferredTags) == 0 {
		articles, _, err := s.repo.LatestArticles(ctx, nil, 0, limit)
		return articles, err
	}

	articles, _, err := s.repo.ArticlesByTags(ctx, prefs.PreferredTags, 0, limit)
	return articles, err
}

func (s *feedService) GetPreferences(ctx context.Context, userID uuid.UUID) (*feed.UserPreferences, error) {
	return s.repo.GetPreferences(ctx, userID)
}

func (s *feedService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *feed.UpdatePreferencesRequest) (*feed.UserPreferences, error) {
	if req.FeedView != nil && !feed.ValidFeedView(*req.FeedView) {
		return nil, feed.ErrInvalidFeedView
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.PreferredTags != nil {
		prefs.PreferredTags = req.PreferredTags
	}
	if req.FeedView != nil {
		prefs.FeedView = *req.FeedView
	}
	if req.EmailDigest != nil {
		prefs.EmailDigest = *req.EmailDigest
	}
	now := s.now()
	prefs.UpdatedAt = &now
	prefs.UserID = userID

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *feedService) RecordInteraction(ctx context.Context, userID uuid.UUID, req *feed.InteractionRequest) error {
	target := feed.TargetType(req.TargetType)
	action, ok := feed.InteractionAction(req.Type, target)
	if !ok {
		return feed.ErrInvalidInteraction
	}

	metadata := map[string]any{"interaction": req.Type}
	if req.DurationSeconds != nil {
		metadata["duration_seconds"] = *req.DurationSeconds
	}

	if err := s.repo.InsertActivity(ctx, &feed.Activity{
		ActorID:    userID,
		Action:     action,
		TargetType: target,
		TargetID:   req.TargetID,
		Metadata:   metadata,
	}); err != nil {
		return err
	}

	if req.Type == feed.InteractionView && target == feed.TargetArticle {
		if err := s.repo.IncrementArticleViews(ctx, req.TargetID); err != nil {
			logger.Warn("failed to bump view count", map[string]interface{}{
				"article_id": req.TargetID.String(),
				"error":      err.Error(),
			})
		}
	}
	return nil
}

func paginate(articles []feed.FeedArticle, skip, limit int) []feed.FeedArticle {
	if skip > len(articles) {
		skip = len(articles)
	}
	end := skip + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[skip:end]
}

func valueOr(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}
