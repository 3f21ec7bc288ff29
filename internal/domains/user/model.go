package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account entity. PasswordHash is nil for OAuth-only accounts.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   *string    `json:"-"`
	Username       string     `json:"username"`
	DisplayName    *string    `json:"display_name"`
	GithubUsername *string    `json:"github_username"`
	AvatarURL      *string    `json:"avatar_url"`
	Bio            *string    `json:"bio"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	ExpertiseTags  []string   `json:"expertise_tags"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// MaxExpertiseTags caps how many taxonomy tags a profile can declare.
const MaxExpertiseTags = 10
