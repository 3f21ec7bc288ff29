package feed

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/tag"
)

// FeedArticle is the article projection used by feed and discovery views.
type FeedArticle struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     *string    `json:"summary"`
	Tags        []string   `json:"tags"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	ViewCount   int        `json:"view_count"`
	PublishedAt *time.Time `json:"published_at"`
	Score       float64    `json:"score,omitempty"`
}

// FeedSpace is the space projection used by trending and discovery views.
type FeedSpace struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	Tags         []string  `json:"tags"`
	MemberCount  int       `json:"member_count"`
	ArticleCount int       `json:"article_count"`
	Score        float64   `json:"score,omitempty"`
}

// FeedUser is the user projection used by the new-users discovery category.
type FeedUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	JoinedAt    time.Time `json:"joined_at"`
}

type FeedRequest struct {
	View  string
	Tags  []string
	Skip  int
	Limit int
}

type FeedResponse struct {
	View     string        `json:"view"`
	Articles []FeedArticle `json:"articles"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

// TrendingItem is one entry in the mixed trending list.
type TrendingItem struct {
	Type    TargetType   `json:"type"`
	Score   float64      `json:"score"`
	Article *FeedArticle `json:"article,omitempty"`
	Space   *FeedSpace   `json:"space,omitempty"`
}

type TrendingResponse struct {
	Range   string         `json:"range"`
	Items   []TrendingItem `json:"items"`
	Cached  bool           `json:"cached"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type DiscoverResponse struct {
	RisingArticles []FeedArticle `json:"rising_articles"`
	ActiveSpaces   []FeedSpace   `json:"active_spaces"`
	NewUsers       []FeedUser    `json:"new_users"`
	RefreshAt      time.Time     `json:"refresh_at"`
}

// ActivityFilter scopes the activity stream. Zero values mean global.
type ActivityFilter struct {
	ActorID    uuid.UUID
	TargetType TargetType
	TargetID   uuid.UUID
	Skip       int
	Limit      int
}

type ActivityResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
	Skip       int        `json:"skip"`
	Limit      int        `json:"limit"`
}

type UpdatePreferencesRequest struct {
	PreferredTags []string `json:"preferred_tags"`
	FeedView      *string  `json:"feed_view"`
	EmailDigest   *bool    `json:"email_digest"`
}

func (r UpdatePreferencesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PreferredTags,
			validation.Length(0, 5),
			validation.By(func(value interface{}) error {
				tags, _ := value.([]string)
				if bad, ok := tag.ValidateTags(tags); !ok {
					return validation.NewError("invalid_tag", "unknown tag: "+bad)
				}
				return nil
			}),
		),
		validation.Field(&r.FeedView, validation.By(func(value interface{}) error {
			v, _ := value.(*string)
			if v != nil && !ValidFeedView(*v) {
				return validation.NewError("invalid_feed_view", "feed_view must be latest, trending, or following")
			}
			return nil
		})),
	)
}

type InteractionRequest struct {
	Type            string    `json:"type"`
	TargetType      string    `json:"target_type"`
	TargetID        uuid.UUID `json:"target_id"`
	DurationSeconds *int      `json:"duration_seconds"`
}

func (r InteractionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type,
			validation.Required,
			validation.In(InteractionView, InteractionClick, InteractionShare, InteractionSave),
		),
		validation.Field(&r.TargetType,
			validation.Required,
			validation.In(string(TargetArticle), string(TargetSpace), string(TargetUser)),
		),
		validation.Field(&r.TargetID, validation.By(func(value interface{}) error {
			id, _ := value.(uuid.UUID)
			if id == uuid.Nil {
				return validation.NewError("required", "target_id is required")
			}
			return nil
		})),
	)
}
