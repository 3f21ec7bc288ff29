package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/search/job"
	"aic-hub-backend/internal/shared"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type fakeSearchRepo struct {
	articles []search.ArticleRow
	spaces   []search.SpaceRow
	users    []search.UserRow
}

func (r *fakeSearchRepo) Upsert(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID, title, content string, tags []string) error {
	return nil
}

func (r *fakeSearchRepo) Delete(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID) error {
	return nil
}

func (r *fakeSearchRepo) SearchArticles(ctx context.Context, query string) ([]search.ArticleRow, error) {
	return r.articles, nil
}

func (r *fakeSearchRepo) SearchSpaces(ctx context.Context, query string) ([]search.SpaceRow, error) {
	return r.spaces, nil
}

func (r *fakeSearchRepo) SearchUsers(ctx context.Context, query string) ([]search.UserRow, error) {
	return r.users, nil
}

func (r *fakeSearchRepo) ArticleTitlesByPrefix(ctx context.Context, prefix string, limit int) ([]search.AutocompleteEntry, error) {
	return []search.AutocompleteEntry{
		{Kind: "article", Value: "RAG in production", Slug: "rag-in-production"},
	}, nil
}

func (r *fakeSearchRepo) SpaceNamesByPrefix(ctx context.Context, prefix string, limit int) ([]search.AutocompleteEntry, error) {
	return []search.AutocompleteEntry{
		{Kind: "space", Value: "RAG Builders", Slug: "rag-builders"},
	}, nil
}

func (r *fakeSearchRepo) RebuildEntry(ctx context.Context, entityType search.EntityType, entityID uuid.UUID) error {
	return nil
}

func TestSearch_MergesAndRanksAcrossTypes(t *testing.T) {
	now := time.Now()
	repo := &fakeSearchRepo{
		articles: []search.ArticleRow{
			{ID: uuid.New(), Title: "Strong match", Slug: "strong", Tags: []string{"RAG"}, PublishedAt: &now, Rank: 0.9},
			{ID: uuid.New(), Title: "Weak match", Slug: "weak", Tags: []string{}, PublishedAt: &now, Rank: 0.1},
		},
		spaces: []search.SpaceRow{
			{ID: uuid.New(), Name: "Middling space", Slug: "mid", Tags: []string{}, CreatedAt: now, Rank: 0.5},
		},
	}
	svc := NewSearchService(repo, &fakeEnqueuer{})

	resp, err := svc.Search(context.Background(), &search.Query{Q: "match", Type: "all"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, search.TypeArticle, resp.Results[0].Type)
	assert.Equal(t, search.TypeSpace, resp.Results[1].Type)
	assert.Equal(t, search.TypeArticle, resp.Results[2].Type)

	assert.Equal(t, 3, resp.Facets.Types["article"]+resp.Facets.Types["space"])
	assert.Equal(t, 1, resp.Facets.Tags["RAG"])
}

func TestSearch_TagFilterNarrows(t *testing.T) {
	now := time.Now()
	repo := &fakeSearchRepo{
		articles: []search.ArticleRow{
			{ID: uuid.New(), Title: "Tagged", Slug: "tagged", Tags: []string{"Agents"}, PublishedAt: &now, Rank: 0.2},
			{ID: uuid.New(), Title: "Untagged", Slug: "untagged", Tags: []string{"LLMs"}, PublishedAt: &now, Rank: 0.8},
		},
	}
	svc := NewSearchService(repo, &fakeEnqueuer{})

	resp, err := svc.Search(context.Background(), &search.Query{Q: "x", Type: "articles", Tags: []string{"Agents"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	item := resp.Results[0].Item.(search.ArticleItem)
	assert.Equal(t, "Tagged", item.Title)
}

func TestSearch_PaginationAfterMerge(t *testing.T) {
	now := time.Now()
	repo := &fakeSearchRepo{}
	for i := 0; i < 5; i++ {
		repo.articles = append(repo.articles, search.ArticleRow{
			ID: uuid.New(), Title: "a", Slug: "a", Tags: []string{}, PublishedAt: &now, Rank: float64(i),
		})
	}
	svc := NewSearchService(repo, &fakeEnqueuer{})

	resp, err := svc.Search(context.Background(), &search.Query{Q: "a", Type: "articles", Skip: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Results, 2)
}

func TestAutocomplete_TagsFirst(t *testing.T) {
	svc := NewSearchService(&fakeSearchRepo{}, &fakeEnqueuer{})

	entries, err := svc.Autocomplete(context.Background(), "ra", 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, "tag", entries[0].Kind)
	kinds := map[string]bool{}
	for _, e := range entries {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds["article"])
	assert.True(t, kinds["space"])
}

func TestAutocomplete_MinimumPrefix(t *testing.T) {
	svc := NewSearchService(&fakeSearchRepo{}, &fakeEnqueuer{})

	entries, err := svc.Autocomplete(context.Background(), "r", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReindex_InvalidType(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewSearchService(&fakeSearchRepo{}, queue)

	err := svc.Reindex(context.Background(), &search.ReindexRequest{EntityType: "comment", EntityID: uuid.New()})
	assert.ErrorIs(t, err, search.ErrInvalidEntityType)
	assert.Empty(t, queue.tasks)
}

func TestReindex_EnqueuesTask(t *testing.T) {
	queue := &fakeEnqueuer{}
	svc := NewSearchService(&fakeSearchRepo{}, queue)
	id := uuid.New()

	err := svc.Reindex(context.Background(), &search.ReindexRequest{EntityType: "article", EntityID: id})
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, shared.TypeReindexSearch, queue.tasks[0].Type())

	var payload job.ReindexPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, "article", payload.EntityType)
	assert.Equal(t, id, payload.EntityID)
}
