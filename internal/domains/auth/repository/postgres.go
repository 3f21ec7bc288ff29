package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/auth"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) auth.Repository {
	return &postgresRepository{pool: pool}
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepository) RecordAttempt(ctx context.Context, attempt *auth.AuthAttempt) error {
	return r.recordAttempt(ctx, r.pool, attempt)
}

func (r *postgresRepository) RecordAttemptTx(ctx context.Context, tx pgx.Tx, attempt *auth.AuthAttempt) error {
	return r.recordAttempt(ctx, tx, attempt)
}

func (r *postgresRepository) recordAttempt(ctx context.Context, q queryRower, attempt *auth.AuthAttempt) error {
	query := `
		INSERT INTO auth_attempts (action, email_hash, ip_address, success, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		attempt.Action,
		attempt.EmailHash,
		attempt.IPAddress,
		attempt.Success,
		attempt.Reason,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record auth attempt: %w", err)
	}
	return nil
}

func (r *postgresRepository) CountAttemptsByEmail(ctx context.Context, action auth.AuthAction, emailHash string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM auth_attempts
		WHERE action = $1 AND email_hash = $2 AND created_at >= $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, action, emailHash, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attempts by email: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) CountAttemptsByIP(ctx context.Context, action auth.AuthAction, ip string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM auth_attempts
		WHERE action = $1 AND ip_address = $2 AND created_at >= $3`

	var count int
	if err := r.pool.QueryRow(ctx, query, action, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attempts by ip: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old auth attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) GetOAuthAccount(ctx context.Context, provider auth.OAuthProvider, providerAccountID string) (*auth.OAuthAccount, error) {
	query := `
		SELECT id, user_id, provider, provider_account_id, created_at
		FROM oauth_accounts
		WHERE provider = $1 AND provider_account_id = $2`

	var account auth.OAuthAccount
	err := r.pool.QueryRow(ctx, query, provider, providerAccountID).Scan(
		&account.ID,
		&account.UserID,
		&account.Provider,
		&account.ProviderAccountID,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get oauth account: %w", err)
	}
	return &account, nil
}

func (r *postgresRepository) LinkAccount(ctx context.Context, account *auth.OAuthAccount) error {
	return r.linkAccount(ctx, r.pool, account)
}

func (r *postgresRepository) LinkAccountTx(ctx context.Context, tx pgx.Tx, account *auth.OAuthAccount) error {
	return r.linkAccount(ctx, tx, account)
}

func (r *postgresRepository) linkAccount(ctx context.Context, q queryRower, account *auth.OAuthAccount) error {
	query := `
		INSERT INTO oauth_accounts (user_id, provider, provider_account_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := q.QueryRow(ctx, query,
		account.UserID,
		account.Provider,
		account.ProviderAccountID,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to link oauth account: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetOAuthAccountsByUser(ctx context.Context, userID uuid.UUID) ([]auth.OAuthAccount, error) {
	query := `
		SELECT id, user_id, provider, provider_account_id, created_at
		FROM oauth_accounts
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list oauth accounts: %w", err)
	}
	defer rows.Close()

	var accounts []auth.OAuthAccount
	for rows.Next() {
		var account auth.OAuthAccount
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Provider,
			&account.ProviderAccountID,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan oauth account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
