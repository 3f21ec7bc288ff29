package tag

import (
	"math"
	"sort"
	"strings"
)

// Suggestion pairs a taxonomy tag with a confidence in [0, 1].
type Suggestion struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// Common variations mapped to their taxonomy tag.
var synonyms = map[string][]string{
	"LLMs":            {"llm", "language model", "gpt", "claude", "llama"},
	"RAG":             {"retrieval augmented", "retrieval-augmented"},
	"NLP":             {"natural language", "text processing"},
	"Computer Vision": {"cv", "image", "vision"},
	"RL":              {"reinforcement learning"},
	"Vector DBs":      {"vector database", "vectordb", "embedding database"},
}

// Suggest scores every taxonomy tag against the title and content using
// keyword matching and returns the top suggestions by confidence.
//
// Scoring per tag: exact tag substring +0.5; each matched word of a
// multi-word tag (len > 3) +0.3/words; each matched description keyword
// (len > 4) +0.1; each matched synonym +0.4. Confidence is clamped to 1.0.
func Suggest(title, content string, limit int) []Suggestion {
	text := strings.ToLower(title + " " + content)
	var suggestions []Suggestion

	for _, t := range Taxonomy {
		confidence := 0.0
		tagLower := strings.ToLower(t)

		if strings.Contains(text, tagLower) {
			confidence += 0.5
		}

		words := strings.Fields(tagLower)
		for _, word := range words {
			if len(word) > 3 && strings.Contains(text, word) {
				confidence += 0.3 / float64(len(words))
			}
		}

		for _, word := range strings.Fields(strings.ToLower(Descriptions[t])) {
			if len(word) > 4 && strings.Contains(text, word) {
				confidence += 0.1
			}
		}

		for _, variant := range synonyms[t] {
			if strings.Contains(text, variant) {
				confidence += 0.4
			}
		}

		if confidence > 0 {
			suggestions = append(suggestions, Suggestion{
				Tag:        t,
				Confidence: math.Min(1.0, confidence),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
