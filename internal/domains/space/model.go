package space

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can see a space and its contents.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Role is a member's standing within a space.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

const (
	MaxTags              = 5
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Space is a topic community. member_count and article_count are maintained
// alongside membership and share mutations; only public spaces count toward
// tag usage and appear in search.
type Space struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  *string    `json:"description"`
	Tags         []string   `json:"tags"`
	Visibility   Visibility `json:"visibility"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	MemberCount  int        `json:"member_count"`
	ArticleCount int        `json:"article_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// Public reports whether the space is publicly visible.
func (s *Space) Public() bool {
	return s.Visibility == VisibilityPublic
}

// Member is a user's membership row in a space.
type Member struct {
	SpaceID  uuid.UUID `json:"space_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// SharedArticle links a published article into a space.
type SharedArticle struct {
	SpaceID   uuid.UUID `json:"space_id"`
	ArticleID uuid.UUID `json:"article_id"`
	AddedBy   uuid.UUID `json:"added_by"`
	Pinned    bool      `json:"pinned"`
	AddedAt   time.Time `json:"added_at"`
}
