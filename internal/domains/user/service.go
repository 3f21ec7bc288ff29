package user

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*PrivateProfile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req *UpdateMeRequest) (*PrivateProfile, error)
	GetByUsername(ctx context.Context, username string) (*PublicProfile, error)
	ListUsers(ctx context.Context, filter *ListFilter) ([]PublicProfile, error)
	CheckUsername(ctx context.Context, userID uuid.UUID, username string) (*CheckUsernameResponse, error)

	// GenerateUsername allocates a unique username from an email for new
	// accounts. Used by the auth flows.
	GenerateUsername(ctx context.Context, email string, excludeID uuid.UUID) (string, error)

	// IsUsernameGenerated reports whether the user still carries the
	// allocator's default username; if so, a one-time change is allowed.
	IsUsernameGenerated(ctx context.Context, u *User) (bool, error)
}
