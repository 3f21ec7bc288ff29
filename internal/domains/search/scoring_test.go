package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreArticle_RankDominates(t *testing.T) {
	now := time.Now()
	old := now.Add(-90 * 24 * time.Hour)

	strong := ScoreArticle(0.9, 0, &old, now, false)
	weakButPopular := ScoreArticle(0.1, 100000, &now, now, false)

	assert.Greater(t, strong, weakButPopular)
}

func TestScoreArticle_RecencyBreaksTies(t *testing.T) {
	now := time.Now()
	fresh := now.Add(-time.Hour)
	stale := now.Add(-60 * 24 * time.Hour)

	assert.Greater(t,
		ScoreArticle(0.5, 100, &fresh, now, false),
		ScoreArticle(0.5, 100, &stale, now, false),
	)
}

func TestScoreArticle_TagBonus(t *testing.T) {
	now := time.Now()
	base := ScoreArticle(0.5, 100, &now, now, false)
	boosted := ScoreArticle(0.5, 100, &now, now, true)

	assert.InDelta(t, base*1.5, boosted, 0.001)
}

func TestScoreUser_LowerBaseWeight(t *testing.T) {
	assert.Greater(t, ScoreArticle(0.5, 0, nil, time.Now(), false), ScoreUser(0.5))
	assert.Greater(t, ScoreSpace(0.5, 0, 0, false), ScoreUser(0.5))
}

func TestHasAnyTag(t *testing.T) {
	assert.True(t, HasAnyTag([]string{"LLMs", "RAG"}, []string{"RAG"}))
	assert.False(t, HasAnyTag([]string{"LLMs"}, []string{"Agents"}))
	assert.False(t, HasAnyTag([]string{"LLMs"}, nil))
}

func TestHighlights_TitleAndSnippet(t *testing.T) {
	h := Highlights("Evaluating RAG pipelines", "A long guide. RAG retrieval quality matters most.", "rag")

	assert.Contains(t, h["title"], "<mark>rag</mark>")
	assert.Contains(t, h["content"], "<mark>rag</mark>")
}

func TestHighlights_SnippetBounds(t *testing.T) {
	prefix := make([]byte, 200)
	for i := range prefix {
		prefix[i] = 'x'
	}
	content := string(prefix) + " embeddings appear here " + string(prefix)

	h := Highlights("title", content, "embeddings")
	assert.Contains(t, h["content"], "<mark>embeddings</mark>")
	assert.True(t, len(h["content"]) < len(content))
	assert.Contains(t, h["content"], "...")
}

func TestHighlights_NoContentMatch(t *testing.T) {
	h := Highlights("Fine-tuning guide", "nothing relevant here", "fine-tuning")

	assert.Contains(t, h["title"], "<mark>")
	_, ok := h["content"]
	assert.False(t, ok)
}
