package search

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies what a search index row or result points at.
type EntityType string

const (
	TypeArticle EntityType = "article"
	TypeSpace   EntityType = "space"
	TypeUser    EntityType = "user"
)

func (t EntityType) Valid() bool {
	switch t {
	case TypeArticle, TypeSpace, TypeUser:
		return true
	}
	return false
}

// IndexEntry is a denormalized search index row. It is derived state: every
// entry can be rebuilt from the source tables.
type IndexEntry struct {
	ID         uuid.UUID  `json:"id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// Raw FTS rows scanned by the repository; scoring happens in the service.

type ArticleRow struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Summary     *string
	Tags        []string
	AuthorID    uuid.UUID
	AuthorName  *string
	ViewCount   int
	LikeCount   int
	PublishedAt *time.Time
	Rank        float64
}

type SpaceRow struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Description  *string
	Tags         []string
	MemberCount  int
	ArticleCount int
	OwnerID      uuid.UUID
	OwnerName    *string
	CreatedAt    time.Time
	Rank         float64
}

type UserRow struct {
	ID            uuid.UUID
	Username      string
	DisplayName   *string
	AvatarURL     *string
	ExpertiseTags []string
	CreatedAt     time.Time
	Rank          float64
}

// Result is one scored hit. Item is the type-specific payload.
type Result struct {
	Type  EntityType  `json:"type"`
	Score float64     `json:"score"`
	Item  interface{} `json:"item"`
}

// Facets summarize the full (pre-pagination) result set.
type Facets struct {
	Types map[string]int `json:"types"`
	Tags  map[string]int `json:"tags"`
}
