package auth

import (
	"time"

	"github.com/google/uuid"
)

// AuthAction identifies which flow an attempt belongs to. Rate limit rules
// are keyed by action.
type AuthAction string

const (
	ActionSignup AuthAction = "signup"
	ActionLogin  AuthAction = "login"
)

// OAuthProvider identifies an external identity provider.
type OAuthProvider string

const ProviderGitHub OAuthProvider = "github"

// AuthAttempt is an append-only audit row. Emails are stored as SHA-256
// hashes so the log never contains addresses in the clear; the same hash
// feeds the per-email rate limit counter.
type AuthAttempt struct {
	ID        uuid.UUID  `json:"id"`
	Action    AuthAction `json:"action"`
	EmailHash *string    `json:"email_hash"`
	IPAddress string     `json:"ip_address"`
	Success   bool       `json:"success"`
	Reason    *string    `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

// Attempt failure reasons. Stored for operators; never surfaced to clients.
const (
	ReasonDuplicateEmail     = "duplicate_email"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonRateLimited        = "rate_limited"
)

// OAuthAccount links a user to an external provider identity. The
// (provider, provider_account_id) pair is unique.
type OAuthAccount struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"user_id"`
	Provider          OAuthProvider `json:"provider"`
	ProviderAccountID string        `json:"provider_account_id"`
	CreatedAt         time.Time     `json:"created_at"`
}
