package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TargetType classifies what an activity points at.
type TargetType string

const (
	TargetArticle TargetType = "article"
	TargetSpace   TargetType = "space"
	TargetUser    TargetType = "user"
)

// Activity actions. Interaction tracking derives additional actions with
// InteractionAction.
const (
	ActionArticlePublished = "article_published"
	ActionArticleUpdated   = "article_updated"
	ActionArticleShared    = "article_shared"
	ActionSpaceCreated     = "space_created"
	ActionSpaceJoined      = "space_joined"
	ActionSpaceLeft        = "space_left"
	ActionUserJoined       = "user_joined"
)

// Interaction types clients may report.
const (
	InteractionView  = "view"
	InteractionClick = "click"
	InteractionShare = "share"
	InteractionSave  = "save"
)

// InteractionAction maps an interaction type onto the stored activity
// action, e.g. ("view", TargetArticle) -> "article_viewed". Returns false
// for unknown interaction types.
func InteractionAction(interaction string, target TargetType) (string, bool) {
	switch interaction {
	case InteractionView:
		return string(target) + "_viewed", true
	case InteractionClick:
		return string(target) + "_clicked", true
	case InteractionShare:
		return string(target) + "_shared", true
	case InteractionSave:
		return string(target) + "_saved", true
	default:
		return "", false
	}
}

// Activity is an append-only audit row backing activity streams and
// interaction tracking.
type Activity struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Action     string         `json:"action"`
	TargetType TargetType     `json:"target_type"`
	TargetID   uuid.UUID      `json:"target_id"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityRecorder is the write side of the activity log. Content services
// record through it on publish, space create/join/leave, and share; the Tx
// variant joins the content service's own transaction.
type ActivityRecorder interface {
	Record(ctx context.Context, activity *Activity) error
	RecordTx(ctx context.Context, tx pgx.Tx, activity *Activity) error
}

// UserPreferences stores feed personalization settings, one row per user.
type UserPreferences struct {
	UserID        uuid.UUID  `json:"user_id"`
	PreferredTags []string   `json:"preferred_tags"`
	FeedView      string     `json:"feed_view"`
	EmailDigest   bool       `json:"email_digest"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// Feed view types.
const (
	ViewLatest      = "latest"
	ViewTrending    = "trending"
	ViewFollowing   = "following"
	ViewRecommended = "recommended"
)

// ValidFeedView reports whether v is a persistable feed view preference.
// "recommended" is a request-time view, not a stored default.
func ValidFeedView(v string) bool {
	return v == ViewLatest || v == ViewTrending || v == ViewFollowing
}

// Discovery categories.
const (
	CategoryRisingArticles = "rising_articles"
	CategoryActiveSpaces   = "active_spaces"
	CategoryNewUsers       = "new_users"
)
