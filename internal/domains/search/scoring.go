package search

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Relevance scoring. Text rank dominates; popularity and recency act as
// tie-breakers on a logarithmic scale. An explicit tag-filter match
// multiplies the whole score by 1.5.

const tagMatchBonus = 1.5

func ScoreArticle(rank float64, viewCount int, publishedAt *time.Time, now time.Time, tagMatched bool) float64 {
	popularity := math.Log(float64(viewCount) + 1)

	recency := 0.0
	if publishedAt != nil {
		daysOld := now.Sub(*publishedAt).Hours() / 24
		recency = 1 / (1 + daysOld/30)
	}

	score := rank*100 + popularity*10 + recency*20
	if tagMatched {
		score *= tagMatchBonus
	}
	return score
}

func ScoreSpace(rank float64, memberCount, articleCount int, tagMatched bool) float64 {
	popularity := math.Log(float64(memberCount) + 1)
	activity := math.Log(float64(articleCount) + 1)

	score := rank*100*0.9 + popularity*10 + activity*5
	if tagMatched {
		score *= tagMatchBonus
	}
	return score
}

// Users carry lower base relevance than content.
func ScoreUser(rank float64) float64 {
	return rank * 100 * 0.8
}

// HasAnyTag reports whether any filter tag appears in the entity's tags.
func HasAnyTag(entityTags, filter []string) bool {
	if len(filter) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(entityTags))
	for _, t := range entityTags {
		set[t] = struct{}{}
	}
	for _, t := range filter {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// Highlights wraps matched query terms in <mark> tags and extracts a content
// snippet around the first match.
func Highlights(title, content, query string) map[string]string {
	highlights := map[string]string{}
	terms := strings.Fields(strings.ToLower(query))

	highlighted := title
	for _, term := range terms {
		if strings.Contains(strings.ToLower(title), term) {
			pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
			highlighted = pattern.ReplaceAllString(highlighted, "<mark>"+term+"</mark>")
		}
	}
	highlights["title"] = highlighted

	if content == "" {
		return highlights
	}

	contentLower := strings.ToLower(content)
	bestPos := len(content)
	for _, term := range terms {
		if pos := strings.Index(contentLower, term); pos != -1 && pos < bestPos {
			bestPos = pos
		}
	}

	if bestPos < len(content) {
		start := max(0, bestPos-50)
		end := min(len(content), bestPos+150)
		snippet := content[start:end]
		if start > 0 {
			snippet = "..." + snippet
		}
		if end < len(content) {
			snippet = snippet + "..."
		}
		for _, term := range terms {
			if strings.Contains(strings.ToLower(snippet), term) {
				pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
				snippet = pattern.ReplaceAllString(snippet, "<mark>"+term+"</mark>")
			}
		}
		highlights["content"] = snippet
	}

	return highlights
}
