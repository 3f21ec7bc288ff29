package service

import (
	"context"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aic-hub-backend/internal/domains/tag"
)

type fakeTagRepo struct {
	usages []tag.TagUsage
}

func (r *fakeTagRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, name string, kind tag.EntityKind, delta int) error {
	return nil
}

func (r *fakeTagRepo) GetUsage(ctx context.Context, name string) (*tag.TagUsage, error) {
	for i := range r.usages {
		if r.usages[i].Tag == name {
			return &r.usages[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTagRepo) ListUsage(ctx context.Context, filter *tag.ListFilter) ([]tag.TagUsage, error) {
	return r.usages, nil
}

func (r *fakeTagRepo) UpdateTrendingScore(ctx context.Context, name string, score float64) error {
	return nil
}

func (r *fakeTagRepo) ResetPeriodicCounts(ctx context.Context, period tag.ResetPeriod) error {
	return nil
}

func TestListTags_AlphabeticalSortsMergedList(t *testing.T) {
	repo := &fakeTagRepo{usages: []tag.TagUsage{
		{Tag: "RAG", ArticleCount: 4},
	}}
	svc := NewTagService(repo)

	got, err := svc.ListTags(context.Background(), &tag.ListFilter{Sort: "alphabetical"})
	require.NoError(t, err)
	require.Len(t, got, len(tag.Taxonomy))

	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.True(t, sort.StringsAreSorted(names), "got %v", names)
}

func TestListTags_TrendingPutsZeroScoresLast(t *testing.T) {
	repo := &fakeTagRepo{usages: []tag.TagUsage{
		{Tag: "RAG", ArticleCount: 1, TrendingScore: 2.5},
		{Tag: "Agents", ArticleCount: 1, TrendingScore: 7.0},
	}}
	svc := NewTagService(repo)

	got, err := svc.ListTags(context.Background(), &tag.ListFilter{Sort: "trending"})
	require.NoError(t, err)
	require.Len(t, got, len(tag.Taxonomy))

	assert.Equal(t, "Agents", got[0].Name)
	assert.Equal(t, "RAG", got[1].Name)
	for _, r := range got[2:] {
		assert.Zero(t, r.Stats.TrendingScore)
	}
}

func TestListTags_PopularOrdersByTotalUsageBeforeLimit(t *testing.T) {
	repo := &fakeTagRepo{usages: []tag.TagUsage{
		{Tag: "LLMs", ArticleCount: 3},
		{Tag: "RAG", ArticleCount: 6, UserCount: 4},
	}}
	svc := NewTagService(repo)

	got, err := svc.ListTags(context.Background(), &tag.ListFilter{Sort: "popular", Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "RAG", got[0].Name)
	assert.Equal(t, "LLMs", got[1].Name)
}
