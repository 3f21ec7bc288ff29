package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for users. Tx-scoped variants exist
// where the caller composes the write with other statements (signup creates
// the user together with its auth attempt, OAuth signup with its account
// link, profile updates with tag counters and the search index).
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	CreateTx(ctx context.Context, tx pgx.Tx, u *User) (*User, error)

	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UsernameExists reports whether username is taken by a user other than
	// excludeID (uuid.Nil means no exclusion).
	UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)

	Update(ctx context.Context, u *User) error
	UpdateTx(ctx context.Context, tx pgx.Tx, u *User) error

	StampLastLogin(ctx context.Context, id uuid.UUID) error
	StampLastLoginTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	List(ctx context.Context, filter *ListFilter) ([]User, error)
}
