package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_ExactMatch(t *testing.T) {
	got := Suggest("Getting started with RAG pipelines", "How to combine retrieval with generation.", 5)

	require.NotEmpty(t, got)
	assert.Equal(t, "RAG", got[0].Tag)
	assert.Greater(t, got[0].Confidence, 0.0)
	assert.LessOrEqual(t, got[0].Confidence, 1.0)
}

func TestSuggest_Synonyms(t *testing.T) {
	got := Suggest("Comparing GPT and Claude", "A language model benchmark on reasoning.", 10)

	tags := make(map[string]float64)
	for _, s := range got {
		tags[s.Tag] = s.Confidence
	}

	assert.Contains(t, tags, "LLMs")
	assert.Contains(t, tags, "Benchmarks")
}

func TestSuggest_NoMatch(t *testing.T) {
	got := Suggest("Cooking pasta", "Boil water, add salt.", 5)
	assert.Empty(t, got)
}

func TestSuggest_LimitAndOrdering(t *testing.T) {
	got := Suggest(
		"Fine-tuning LLMs with RAG and vector databases",
		"Training embeddings, prompt engineering, reinforcement learning, agents and inference.",
		3,
	)

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
}

func TestSuggest_ConfidenceClamped(t *testing.T) {
	// Stacks exact match + word matches + synonyms well past 1.0 raw.
	got := Suggest("vector dbs vector database vectordb embedding database", "vector dbs similarity search", 5)

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}
}
