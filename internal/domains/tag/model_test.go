package tag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTrendingScore_NeverUsed(t *testing.T) {
	usage := &TagUsage{Tag: "LLMs"}
	assert.Equal(t, 0.0, ComputeTrendingScore(usage, time.Now()))
}

func TestComputeTrendingScore_RecencyOrdering(t *testing.T) {
	now := time.Now()
	recent := now.Add(-1 * time.Hour)
	stale := now.Add(-30 * 24 * time.Hour)

	// Same totals, only last_used_at differs.
	a := &TagUsage{Tag: "RAG", ArticleCount: 10, LastUsedAt: &recent}
	b := &TagUsage{Tag: "NLP", ArticleCount: 10, LastUsedAt: &stale}

	assert.Greater(t, ComputeTrendingScore(a, now), ComputeTrendingScore(b, now))
}

func TestComputeTrendingScore_GrowthCapped(t *testing.T) {
	now := time.Now()
	used := now.Add(-time.Hour)

	// week >> month/4 would give a huge ratio; growth contribution caps at 2*20.
	hot := &TagUsage{Tag: "Agents", ArticleCount: 5, WeekCount: 100, MonthCount: 100, LastUsedAt: &used}
	base := &TagUsage{Tag: "Agents", ArticleCount: 5, LastUsedAt: &used}

	assert.InDelta(t, 40.0, ComputeTrendingScore(hot, now)-ComputeTrendingScore(base, now), 0.001)
}

func TestWeeklyGrowth(t *testing.T) {
	cases := []struct {
		name  string
		week  int
		month int
		want  string
	}{
		{"no history", 0, 0, ""},
		{"no prior weeks", 10, 10, ""},
		{"flat", 5, 20, "0%"},
		{"doubling", 10, 25, "+100%"},
		{"declining", 2, 20, "-67%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeeklyGrowth(tc.week, tc.month))
		})
	}
}

func TestTaxonomy(t *testing.T) {
	assert.Len(t, Taxonomy, 19)
	assert.True(t, IsValid("LLMs"))
	assert.False(t, IsValid("llms"))
	assert.False(t, IsValid("Blockchain"))

	for name := range Descriptions {
		assert.True(t, IsValid(name), "description for unknown tag %q", name)
	}
	for name, related := range Relationships {
		assert.True(t, IsValid(name), "relationship for unknown tag %q", name)
		for _, r := range related {
			assert.True(t, IsValid(r), "related tag %q of %q not in taxonomy", r, name)
		}
	}
}

func TestValidateTags(t *testing.T) {
	_, ok := ValidateTags([]string{"LLMs", "RAG"})
	assert.True(t, ok)

	bad, ok := ValidateTags([]string{"LLMs", "Crypto"})
	assert.False(t, ok)
	assert.Equal(t, "Crypto", bad)
}
