package space

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"aic-hub-backend/internal/domains/tag"
)

type CreateRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Visibility  Visibility `json:"visibility"`
}

func (r *CreateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Visibility == "" {
		r.Visibility = VisibilityPublic
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Description, validation.By(descriptionLength)),
		validation.Field(&r.Tags, validation.By(validTagSet)),
		validation.Field(&r.Visibility, validation.In(VisibilityPublic, VisibilityPrivate)),
	)
}

type UpdateRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Tags        []string    `json:"tags"`
	Visibility  *Visibility `json:"visibility"`
}

func (r *UpdateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Description, validation.By(descriptionLength)),
		validation.Field(&r.Tags, validation.By(validTagSet)),
		validation.Field(&r.Visibility, validation.In(VisibilityPublic, VisibilityPrivate)),
	)
}

type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.Required, validation.In(RoleModerator, RoleMember)),
	)
}

type ShareArticleRequest struct {
	ArticleID uuid.UUID `json:"article_id"`
}

func (r *ShareArticleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ArticleID, validation.Required),
	)
}

type PinRequest struct {
	Pinned bool `json:"pinned"`
}

func descriptionLength(value interface{}) error {
	s, _ := value.(*string)
	if s != nil && len(*s) > MaxDescriptionLength {
		return validation.NewError("description_too_long", "description must be 500 characters or less")
	}
	return nil
}

func validTagSet(value interface{}) error {
	tags, _ := value.([]string)
	if len(tags) > MaxTags {
		return validation.NewError("too_many_tags", "spaces may carry at most 5 tags")
	}
	for _, t := range tags {
		if !tag.IsValid(t) {
			return ErrInvalidTag
		}
	}
	return nil
}

// ListFilter narrows the space listing. MySpaces restricts to spaces the
// viewer belongs to; otherwise public spaces plus the viewer's private ones
// are shown.
type ListFilter struct {
	Tags     []string
	Query    string
	MySpaces bool
	ViewerID uuid.UUID
	Skip     int
	Limit    int
}

// Owner is the subset of a user embedded in space responses.
type Owner struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

type Response struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  *string    `json:"description"`
	Tags         []string   `json:"tags"`
	Visibility   Visibility `json:"visibility"`
	Owner        *Owner     `json:"owner,omitempty"`
	MemberCount  int        `json:"member_count"`
	ArticleCount int        `json:"article_count"`
	MemberRole   *Role      `json:"member_role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func ToResponse(s *Space, owner *Owner, memberRole *Role) *Response {
	return &Response{
		ID:           s.ID,
		Name:         s.Name,
		Slug:         s.Slug,
		Description:  s.Description,
		Tags:         s.Tags,
		Visibility:   s.Visibility,
		Owner:        owner,
		MemberCount:  s.MemberCount,
		ArticleCount: s.ArticleCount,
		MemberRole:   memberRole,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type ListResponse struct {
	Spaces []Response `json:"spaces"`
	Total  int        `json:"total"`
	Skip   int        `json:"skip"`
	Limit  int        `json:"limit"`
}

// MemberResponse is a membership row joined with its user.
type MemberResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// SharedArticleResponse is a share row joined with its article.
type SharedArticleResponse struct {
	ArticleID   uuid.UUID  `json:"article_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     *string    `json:"summary"`
	Tags        []string   `json:"tags"`
	ViewCount   int        `json:"view_count"`
	PublishedAt *time.Time `json:"published_at"`
	AddedBy     uuid.UUID  `json:"added_by"`
	Pinned      bool       `json:"pinned"`
	AddedAt     time.Time  `json:"added_at"`
}
