package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/search"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) search.Repository {
	return &postgresRepository{pool: pool}
}

const upsertQuery = `
	INSERT INTO search_index (entity_type, entity_id, title, content, tags)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (entity_type, entity_id)
	DO UPDATE SET title = $3, content = $4, tags = $5, updated_at = NOW()`

func (r *postgresRepository) Upsert(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID, title, content string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	if _, err := tx.Exec(ctx, upsertQuery, entityType, entityID, title, content, tags); err != nil {
		return fmt.Errorf("failed to upsert index entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID) error {
	query := `DELETE FROM search_index WHERE entity_type = $1 AND entity_id = $2`

	if _, err := tx.Exec(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("failed to delete index entry: %w", err)
	}
	return nil
}

func (r *postgresRepository) SearchArticles(ctx context.Context, query string) ([]search.ArticleRow, error) {
	sql := `
		SELECT a.id, a.title, a.slug, a.summary, a.tags, a.author_id, u.display_name,
		       a.view_count, a.like_count, a.published_at,
		       ts_rank(
		           to_tsvector('english', a.title || ' ' || COALESCE(a.summary, '') || ' ' || a.content),
		           plainto_tsquery('english', $1)
		       ) AS rank
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.status = 'published'
		  AND to_tsvector('english', a.title || ' ' || COALESCE(a.summary, '') || ' ' || a.content)
		      @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC
		LIMIT 100`

	rows, err := r.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	var results []search.ArticleRow
	for rows.Next() {
		var a search.ArticleRow
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Tags, &a.AuthorID, &a.AuthorName,
			&a.ViewCount, &a.LikeCount, &a.PublishedAt, &a.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article hit: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (r *postgresRepository) SearchSpaces(ctx context.Context, query string) ([]search.SpaceRow, error) {
	sql := `
		SELECT s.id, s.name, s.slug, s.description, s.tags, s.member_count, s.article_count,
		       s.owner_id, u.display_name, s.created_at,
		       ts_rank(
		           to_tsvector('english', s.name || ' ' || COALESCE(s.description, '')),
		           plainto_tsquery('english', $1)
		       ) AS rank
		FROM spaces s
		JOIN users u ON u.id = s.owner_id
		WHERE s.visibility = 'public'
		  AND to_tsvector('english', s.name || ' ' || COALESCE(s.description, ''))
		      @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC
		LIMIT 100`

	rows, err := r.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search spaces: %w", err)
	}
	defer rows.Close()

	var results []search.SpaceRow
	for rows.Next() {
		var s search.SpaceRow
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Slug, &s.Description, &s.Tags, &s.MemberCount, &s.ArticleCount,
			&s.OwnerID, &s.OwnerName, &s.CreatedAt, &s.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan space hit: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *postgresRepository) SearchUsers(ctx context.Context, query string) ([]search.UserRow, error) {
	sql := `
		SELECT id, username, display_name, avatar_url, expertise_tags, created_at,
		       ts_rank(
		           to_tsvector('english', username || ' ' || COALESCE(display_name, '') || ' ' || COALESCE(bio, '')),
		           plainto_tsquery('english', $1)
		       ) AS rank
		FROM users
		WHERE to_tsvector('english', username || ' ' || COALESCE(display_name, '') || ' ' || COALESCE(bio, ''))
		      @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC
		LIMIT 100`

	rows, err := r.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var results []search.UserRow
	for rows.Next() {
		var u search.UserRow
		if err := rows.Scan(
			&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.ExpertiseTags, &u.CreatedAt, &u.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user hit: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *postgresRepository) ArticleTitlesByPrefix(ctx context.Context, prefix string, limit int) ([]search.AutocompleteEntry, error) {
	sql := `
		SELECT title, slug FROM articles
		WHERE status = 'published' AND title ILIKE $1 || '%'
		ORDER BY view_count DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete articles: %w", err)
	}
	defer rows.Close()

	var entries []search.AutocompleteEntry
	for rows.Next() {
		e := search.AutocompleteEntry{Kind: "article"}
		if err := rows.Scan(&e.Value, &e.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan autocomplete row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepository) SpaceNamesByPrefix(ctx context.Context, prefix string, limit int) ([]search.AutocompleteEntry, error) {
	sql := `
		SELECT name, slug FROM spaces
		WHERE visibility = 'public' AND name ILIKE $1 || '%'
		ORDER BY member_count DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete spaces: %w", err)
	}
	defer rows.Close()

	var entries []search.AutocompleteEntry
	for rows.Next() {
		e := search.AutocompleteEntry{Kind: "space"}
		if err := rows.Scan(&e.Value, &e.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan autocomplete row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RebuildEntry re-derives one index row from its source table. A vanished
// source row removes the stale index row and reports ErrEntityNotFound.
func (r *postgresRepository) RebuildEntry(ctx context.Context, entityType search.EntityType, entityID uuid.UUID) error {
	var (
		title   string
		content string
		tags    []string
		err     error
	)

	switch entityType {
	case search.TypeArticle:
		err = r.pool.QueryRow(ctx,
			`SELECT title, COALESCE(summary, ''), tags FROM articles WHERE id = $1 AND status = 'published'`,
			entityID,
		).Scan(&title, &content, &tags)
	case search.TypeSpace:
		err = r.pool.QueryRow(ctx,
			`SELECT name, COALESCE(description, ''), tags FROM spaces WHERE id = $1 AND visibility = 'public'`,
			entityID,
		).Scan(&title, &content, &tags)
	case search.TypeUser:
		err = r.pool.QueryRow(ctx,
			`SELECT username, COALESCE(bio, ''), expertise_tags FROM users WHERE id = $1`,
			entityID,
		).Scan(&title, &content, &tags)
	default:
		return search.ErrInvalidEntityType
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, delErr := r.pool.Exec(ctx,
				`DELETE FROM search_index WHERE entity_type = $1 AND entity_id = $2`,
				entityType, entityID,
			); delErr != nil {
				return fmt.Errorf("failed to drop stale index entry: %w", delErr)
			}
			return search.ErrEntityNotFound
		}
		return fmt.Errorf("failed to load source row: %w", err)
	}

	if tags == nil {
		tags = []string{}
	}
	if _, err := r.pool.Exec(ctx, upsertQuery, entityType, entityID, title, content, tags); err != nil {
		return fmt.Errorf("failed to rebuild index entry: %w", err)
	}
	return nil
}
