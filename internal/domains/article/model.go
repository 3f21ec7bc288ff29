package article

import (
	"time"

	"github.com/google/uuid"
)

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const (
	// MaxTags caps how many taxonomy tags one article may carry.
	MaxTags = 5
	// MaxSummaryLength bounds the optional summary.
	MaxSummaryLength = 500
	// MaxTitleLength bounds the title.
	MaxTitleLength = 255
)

// Article is a post authored by a user. Content is stored as the raw
// editor document; only the summary feeds the search index.
type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     *string    `json:"summary"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	AuthorID    uuid.UUID  `json:"author_id"`
	ViewCount   int        `json:"view_count"`
	LikeCount   int        `json:"like_count"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Published reports whether the article is live. Only published articles
// count toward tag usage and appear in search.
func (a *Article) Published() bool {
	return a.Status == StatusPublished
}

// Author is the subset of a user embedded in article responses.
type Author struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}
