package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/pkg/logger"
)

type tagService struct {
	repo tag.Repository
}

func NewTagService(repo tag.Repository) tag.Service {
	return &tagService{repo: repo}
}

func (s *tagService) ListTags(ctx context.Context, filter *tag.ListFilter) ([]tag.TagResponse, error) {
	usages, err := s.repo.ListUsage(ctx, filter)
	if err != nil {
		return nil, err
	}

	used := make(map[string]*tag.TagUsage, len(usages))
	for i := range usages {
		used[usages[i].Tag] = &usages[i]
	}

	var responses []tag.TagResponse
	for _, usage := range usages {
		responses = append(responses, buildResponse(usage.Tag, &usage))
	}

	// Unused taxonomy tags still appear in the unfiltered listing, with
	// zeroed stats. The merged list must be re-sorted: the repository only
	// ordered the used rows.
	if filter.Category == "" || filter.Category == "all" {
		for _, name := range tag.Taxonomy {
			if _, ok := used[name]; !ok {
				responses = append(responses, buildResponse(name, nil))
			}
		}
	}
	sortResponses(responses, filter.Sort)

	if filter.Limit > 0 && len(responses) > filter.Limit {
		responses = responses[:filter.Limit]
	}

	return responses, nil
}

func (s *tagService) GetTag(ctx context.Context, name string) (*tag.TagResponse, error) {
	if !tag.IsValid(name) {
		return nil, tag.ErrTagNotFound
	}

	usage, err := s.repo.GetUsage(ctx, name)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(name, usage)
	return &resp, nil
}

func (s *tagService) SuggestTags(ctx context.Context, req *tag.SuggestRequest) (*tag.SuggestResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = 5
	}

	suggestions := tag.Suggest(req.Title, req.Content, limit)

	resp := &tag.SuggestResponse{
		SuggestedTags: make([]string, 0, len(suggestions)),
		Confidence:    make(map[string]float64, len(suggestions)),
	}
	for _, s := range suggestions {
		resp.SuggestedTags = append(resp.SuggestedTags, s.Tag)
		resp.Confidence[s.Tag] = s.Confidence
	}

	return resp, nil
}

func (s *tagService) CalculateTrendingScores(ctx context.Context) error {
	usages, err := s.repo.ListUsage(ctx, &tag.ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to load tag usage: %w", err)
	}

	now := time.Now()
	for i := range usages {
		score := tag.ComputeTrendingScore(&usages[i], now)
		if err := s.repo.UpdateTrendingScore(ctx, usages[i].Tag, score); err != nil {
			return err
		}
	}

	logger.Info("trending scores recalculated", map[string]interface{}{
		"tags": len(usages),
	})
	return nil
}

func (s *tagService) ResetPeriodicCounts(ctx context.Context, period tag.ResetPeriod) error {
	if period != tag.PeriodWeek && period != tag.PeriodMonth {
		return tag.ErrInvalidPeriod
	}
	return s.repo.ResetPeriodicCounts(ctx, period)
}

func sortResponses(responses []tag.TagResponse, by string) {
	switch by {
	case "alphabetical":
		sort.SliceStable(responses, func(i, j int) bool {
			return responses[i].Name < responses[j].Name
		})
	case "trending":
		sort.SliceStable(responses, func(i, j int) bool {
			return responses[i].Stats.TrendingScore > responses[j].Stats.TrendingScore
		})
	default:
		sort.SliceStable(responses, func(i, j int) bool {
			return responses[i].Stats.TotalUsage > responses[j].Stats.TotalUsage
		})
	}
}

func buildResponse(name string, usage *tag.TagUsage) tag.TagResponse {
	stats := tag.TagStats{}
	if usage != nil {
		stats = tag.TagStats{
			Articles:      usage.ArticleCount,
			Spaces:        usage.SpaceCount,
			Experts:       usage.UserCount,
			TotalUsage:    usage.Total(),
			WeeklyGrowth:  tag.WeeklyGrowth(usage.WeekCount, usage.MonthCount),
			TrendingScore: usage.TrendingScore,
		}
	}

	return tag.TagResponse{
		Name:        name,
		Description: tag.Descriptions[name],
		Stats:       stats,
		Related:     tag.Related(name, 3),
	}
}
