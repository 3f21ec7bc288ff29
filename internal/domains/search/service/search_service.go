package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/search/job"
	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/internal/shared"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type searchService struct {
	repo  search.Repository
	queue TaskEnqueuer
	now   func() time.Time
}

func NewSearchService(repo search.Repository, queue TaskEnqueuer) search.Service {
	return &searchService{repo: repo, queue: queue, now: time.Now}
}

func (s *searchService) Search(ctx context.Context, q *search.Query) (*search.Response, error) {
	started := s.now()

	if q.Type == "" {
		q.Type = "all"
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	var results []search.Result

	if q.Type == "all" || q.Type == "articles" {
		hits, err := s.searchArticles(ctx, q)
		if err != nil {
			return nil, err
		}
		results = append(results, hits...)
	}
	if q.Type == "all" || q.Type == "spaces" {
		hits, err := s.searchSpaces(ctx, q)
		if err != nil {
			return nil, err
		}
		results = append(results, hits...)
	}
	if q.Type == "all" || q.Type == "users" {
		hits, err := s.searchUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		results = append(results, hits...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	facets := buildFacets(results)
	total := len(results)

	// Paginate after merging so scores rank across types.
	start := q.Skip
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page := results[start:end]
	if page == nil {
		page = []search.Result{}
	}

	return &search.Response{
		Results:          page,
		Total:            total,
		Facets:           facets,
		Skip:             q.Skip,
		Limit:            q.Limit,
		ProcessingTimeMs: s.now().Sub(started).Milliseconds(),
	}, nil
}

func (s *searchService) searchArticles(ctx context.Context, q *search.Query) ([]search.Result, error) {
	rows, err := s.repo.SearchArticles(ctx, q.Q)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		if len(q.Tags) > 0 && !search.HasAnyTag(row.Tags, q.Tags) {
			continue
		}

		var publishedAt *string
		if row.PublishedAt != nil {
			iso := row.PublishedAt.Format(time.RFC3339)
			publishedAt = &iso
		}

		summary := ""
		if row.Summary != nil {
			summary = *row.Summary
		}

		results = append(results, search.Result{
			Type:  search.TypeArticle,
			Score: search.ScoreArticle(row.Rank, row.ViewCount, row.PublishedAt, now, search.HasAnyTag(row.Tags, q.Tags)),
			Item: search.ArticleItem{
				ID:          row.ID,
				Title:       row.Title,
				Slug:        row.Slug,
				Summary:     row.Summary,
				Tags:        row.Tags,
				AuthorID:    row.AuthorID,
				AuthorName:  row.AuthorName,
				ViewCount:   row.ViewCount,
				LikeCount:   row.LikeCount,
				PublishedAt: publishedAt,
				Highlights:  search.Highlights(row.Title, summary, q.Q),
			},
		})
	}
	return results, nil
}

func (s *searchService) searchSpaces(ctx context.Context, q *search.Query) ([]search.Result, error) {
	rows, err := s.repo.SearchSpaces(ctx, q.Q)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		if len(q.Tags) > 0 && !search.HasAnyTag(row.Tags, q.Tags) {
			continue
		}

		description := ""
		if row.Description != nil {
			description = *row.Description
		}

		results = append(results, search.Result{
			Type:  search.TypeSpace,
			Score: search.ScoreSpace(row.Rank, row.MemberCount, row.ArticleCount, search.HasAnyTag(row.Tags, q.Tags)),
			Item: search.SpaceItem{
				ID:           row.ID,
				Name:         row.Name,
				Slug:         row.Slug,
				Description:  row.Description,
				Tags:         row.Tags,
				MemberCount:  row.MemberCount,
				ArticleCount: row.ArticleCount,
				OwnerID:      row.OwnerID,
				OwnerName:    row.OwnerName,
				Highlights:   search.Highlights(row.Name, description, q.Q),
			},
		})
	}
	return results, nil
}

func (s *searchService) searchUsers(ctx context.Context, q *search.Query) ([]search.Result, error) {
	rows, err := s.repo.SearchUsers(ctx, q.Q)
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		if len(q.Tags) > 0 && !search.HasAnyTag(row.ExpertiseTags, q.Tags) {
			continue
		}

		results = append(results, search.Result{
			Type:  search.TypeUser,
			Score: search.ScoreUser(row.Rank),
			Item: search.UserItem{
				ID:            row.ID,
				Username:      row.Username,
				DisplayName:   row.DisplayName,
				AvatarURL:     row.AvatarURL,
				ExpertiseTags: row.ExpertiseTags,
			},
		})
	}
	return results, nil
}

// Autocomplete returns taxonomy tags first, then published article titles,
// then public space names. The prefix must be at least two characters.
func (s *searchService) Autocomplete(ctx context.Context, prefix string, limit int) ([]search.AutocompleteEntry, error) {
	if limit <= 0 || limit > 20 {
		limit = 10
	}

	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return []search.AutocompleteEntry{}, nil
	}

	entries := []search.AutocompleteEntry{}
	lower := strings.ToLower(prefix)
	for _, t := range tag.Taxonomy {
		if strings.HasPrefix(strings.ToLower(t), lower) {
			entries = append(entries, search.AutocompleteEntry{Kind: "tag", Value: t})
		}
	}

	if len(entries) < limit {
		articles, err := s.repo.ArticleTitlesByPrefix(ctx, prefix, limit-len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, articles...)
	}

	if len(entries) < limit {
		spaces, err := s.repo.SpaceNamesByPrefix(ctx, prefix, limit-len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, spaces...)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *searchService) Reindex(ctx context.Context, req *search.ReindexRequest) error {
	entityType := search.EntityType(req.EntityType)
	if !entityType.Valid() {
		return search.ErrInvalidEntityType
	}

	payload, err := json.Marshal(job.ReindexPayload{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reindex payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeReindexSearch, payload)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(2)); err != nil {
		return fmt.Errorf("failed to enqueue reindex task: %w", err)
	}
	return nil
}

func buildFacets(results []search.Result) search.Facets {
	facets := search.Facets{
		Types: map[string]int{},
		Tags:  map[string]int{},
	}
	for _, r := range results {
		facets.Types[string(r.Type)]++
		switch item := r.Item.(type) {
		case search.ArticleItem:
			for _, t := range item.Tags {
				facets.Tags[t]++
			}
		case search.SpaceItem:
			for _, t := range item.Tags {
				facets.Tags[t]++
			}
		case search.UserItem:
			for _, t := range item.ExpertiseTags {
				facets.Tags[t]++
			}
		}
	}
	return facets
}
