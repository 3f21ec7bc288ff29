package search

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Query struct {
	Q     string
	Type  string // all, articles, spaces, users
	Tags  []string
	Skip  int
	Limit int
}

func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Q,
			validation.Required.Error("query is required"),
			validation.Length(1, 200),
		),
		validation.Field(&q.Type, validation.In("all", "articles", "spaces", "users")),
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(100)),
	)
}

type Response struct {
	Results          []Result `json:"results"`
	Total            int      `json:"total"`
	Facets           Facets   `json:"facets"`
	Skip             int      `json:"skip"`
	Limit            int      `json:"limit"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

type AutocompleteEntry struct {
	Kind  string `json:"kind"` // tag, article, space
	Value string `json:"value"`
	Slug  string `json:"slug,omitempty"`
	Count int    `json:"count,omitempty"`
}

type ReindexRequest struct {
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
}

func (r ReindexRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntityType,
			validation.Required,
			validation.In("article", "space", "user"),
		),
		validation.Field(&r.EntityID, validation.By(func(value interface{}) error {
			id, _ := value.(uuid.UUID)
			if id == uuid.Nil {
				return validation.NewError("required", "entity_id is required")
			}
			return nil
		})),
	)
}

// Result item payloads.

type ArticleItem struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Summary     *string           `json:"summary"`
	Tags        []string          `json:"tags"`
	AuthorID    uuid.UUID         `json:"author_id"`
	AuthorName  *string           `json:"author_name"`
	ViewCount   int               `json:"view_count"`
	LikeCount   int               `json:"like_count"`
	PublishedAt *string           `json:"published_at"`
	Highlights  map[string]string `json:"highlights"`
}

type SpaceItem struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Description  *string           `json:"description"`
	Tags         []string          `json:"tags"`
	MemberCount  int               `json:"member_count"`
	ArticleCount int               `json:"article_count"`
	OwnerID      uuid.UUID         `json:"owner_id"`
	OwnerName    *string           `json:"owner_name"`
	Highlights   map[string]string `json:"highlights"`
}

type UserItem struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayName   *string   `json:"display_name"`
	AvatarURL     *string   `json:"avatar_url"`
	ExpertiseTags []string  `json:"expertise_tags"`
}
