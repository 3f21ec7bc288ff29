package article

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/tag"
)

type CreateRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Summary *string  `json:"summary"`
	Tags    []string `json:"tags"`
}

func (r *CreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Summary, validation.By(summaryLength)),
		validation.Field(&r.Tags, validation.By(validTagSet)),
	)
}

type UpdateRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Summary *string  `json:"summary"`
	Tags    []string `json:"tags"`
	Status  *Status  `json:"status"`
}

func (r *UpdateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Summary, validation.By(summaryLength)),
		validation.Field(&r.Tags, validation.By(validTagSet)),
		validation.Field(&r.Status, validation.In(StatusDraft, StatusPublished)),
	)
}

func summaryLength(value interface{}) error {
	s, _ := value.(*string)
	if s != nil && len(*s) > MaxSummaryLength {
		return ErrSummaryTooLong
	}
	return nil
}

func validTagSet(value interface{}) error {
	tags, _ := value.([]string)
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}
	for _, t := range tags {
		if !tag.IsValid(t) {
			return ErrInvalidTag
		}
	}
	return nil
}

// ListFilter narrows the published article listing. Tags match with OR
// semantics; Query does a substring match on title and summary.
type ListFilter struct {
	Tags   []string
	Author string
	Query  string
	Sort   string // latest, popular, trending
	Skip   int
	Limit  int
}

type Response struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     *string    `json:"summary"`
	Content     string     `json:"content,omitempty"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	Author      *Author    `json:"author,omitempty"`
	ViewCount   int        `json:"view_count"`
	LikeCount   int        `json:"like_count"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ToResponse shapes an article for API output. Listing endpoints omit the
// body by passing includeContent=false.
func ToResponse(a *Article, author *Author, includeContent bool) *Response {
	resp := &Response{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Tags:        a.Tags,
		Status:      a.Status,
		Author:      author,
		ViewCount:   a.ViewCount,
		LikeCount:   a.LikeCount,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if includeContent {
		resp.Content = a.Content
	}
	return resp
}

type ListResponse struct {
	Articles []Response `json:"articles"`
	Total    int        `json:"total"`
	Skip     int        `json:"skip"`
	Limit    int        `json:"limit"`
}
