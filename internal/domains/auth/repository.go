package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists auth attempts and OAuth account links. Attempt rows
// are append-only; nothing updates them after insert.
type Repository interface {
	AttemptCounter

	RecordAttempt(ctx context.Context, attempt *AuthAttempt) error
	RecordAttemptTx(ctx context.Context, tx pgx.Tx, attempt *AuthAttempt) error

	// DeleteAttemptsBefore removes audit rows older than the cutoff and
	// returns how many were removed.
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	GetOAuthAccount(ctx context.Context, provider OAuthProvider, providerAccountID string) (*OAuthAccount, error)
	LinkAccount(ctx context.Context, account *OAuthAccount) error
	LinkAccountTx(ctx context.Context, tx pgx.Tx, account *OAuthAccount) error
	GetOAuthAccountsByUser(ctx context.Context, userID uuid.UUID) ([]OAuthAccount, error)
}
