package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/user"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, username, display_name, github_username,
	avatar_url, bio, company, location, expertise_tags,
	created_at, updated_at, last_login
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Username,
		&u.DisplayName,
		&u.GithubUsername,
		&u.AvatarURL,
		&u.Bio,
		&u.Company,
		&u.Location,
		&u.ExpertiseTags,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	return r.create(ctx, r.pool, u)
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, u *user.User) (*user.User, error) {
	return r.create(ctx, tx, u)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepository) create(ctx context.Context, q queryRower, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (
			email, password_hash, username, display_name, github_username,
			avatar_url, bio, company, location, expertise_tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	if u.ExpertiseTags == nil {
		u.ExpertiseTags = []string{}
	}

	row := q.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.Username, u.DisplayName, u.GithubUsername,
		u.AvatarURL, u.Bio, u.Company, u.Location, u.ExpertiseTags,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, user.ErrUsernameTaken
			}
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND ($2 = '00000000-0000-0000-0000-000000000000'::uuid OR id != $2))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *user.User) error {
	return r.update(ctx, r.pool, u)
}

func (r *postgresRepository) UpdateTx(ctx context.Context, tx pgx.Tx, u *user.User) error {
	return r.update(ctx, tx, u)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *postgresRepository) update(ctx context.Context, q execer, u *user.User) error {
	query := `
		UPDATE users SET
			username = $2, display_name = $3, github_username = $4,
			avatar_url = $5, bio = $6, company = $7, location = $8,
			expertise_tags = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		u.ID, u.Username, u.DisplayName, u.GithubUsername,
		u.AvatarURL, u.Bio, u.Company, u.Location,
		u.ExpertiseTags, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) StampLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.stampLastLogin(ctx, r.pool, id)
}

func (r *postgresRepository) StampLastLoginTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	return r.stampLastLogin(ctx, tx, id)
}

func (r *postgresRepository) stampLastLogin(ctx context.Context, q execer, id uuid.UUID) error {
	if _, err := q.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to stamp last login: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter *user.ListFilter) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	where := ""

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = fmt.Sprintf(" WHERE (username ILIKE $%d OR COALESCE(display_name, '') ILIKE $%d)", len(args), len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		clause := fmt.Sprintf("$%d = ANY(expertise_tags)", len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	args = append(args, filter.Limit, filter.Offset)
	query += where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}
