package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/article"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) article.Repository {
	return &postgresRepository{pool: pool}
}

const articleColumns = `
	id, title, slug, summary, content, tags, status, author_id,
	view_count, like_count, published_at, created_at, updated_at
`

func scanArticle(row pgx.Row) (*article.Article, error) {
	var a article.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.Content,
		&a.Tags,
		&a.Status,
		&a.AuthorID,
		&a.ViewCount,
		&a.LikeCount,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, a *article.Article) (*article.Article, error) {
	query := `
		INSERT INTO articles (title, slug, summary, content, tags, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + articleColumns

	if a.Tags == nil {
		a.Tags = []string{}
	}

	created, err := scanArticle(tx.QueryRow(ctx, query,
		a.Title,
		a.Slug,
		a.Summary,
		a.Content,
		a.Tags,
		a.Status,
		a.AuthorID,
		a.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	a, err := scanArticle(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM articles
			WHERE slug = $1 AND ($2 = '00000000-0000-0000-0000-000000000000'::uuid OR id != $2)
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *article.ListFilter) ([]article.Article, int, error) {
	where := `WHERE a.status = 'published'`
	args := []any{}
	argPos := 1

	if len(filter.Tags) > 0 {
		where += fmt.Sprintf(" AND a.tags && $%d", argPos)
		args = append(args, filter.Tags)
		argPos++
	}
	if filter.Author != "" {
		where += fmt.Sprintf(" AND a.author_id = (SELECT id FROM users WHERE username = $%d)", argPos)
		args = append(args, filter.Author)
		argPos++
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND (a.title ILIKE $%d OR a.summary ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM articles a ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	var orderBy string
	switch filter.Sort {
	case "popular":
		orderBy = "a.view_count DESC"
	case "trending":
		orderBy = "a.view_count DESC, a.created_at DESC"
	default:
		orderBy = "a.created_at DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM articles a %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		articleColumns, where, orderBy, argPos, argPos+1,
	)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *postgresRepository) ListDrafts(ctx context.Context, authorID uuid.UUID) ([]article.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE author_id = $1 AND status = 'draft'
		ORDER BY updated_at DESC NULLS LAST, created_at DESC`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *postgresRepository) UpdateTx(ctx context.Context, tx pgx.Tx, a *article.Article) error {
	query := `
		UPDATE articles
		SET title = $2, slug = $3, summary = $4, content = $5, tags = $6,
		    status = $7, published_at = $8, updated_at = $9
		WHERE id = $1`

	cmd, err := tx.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.Summary,
		a.Content,
		a.Tags,
		a.Status,
		a.PublishedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return article.ErrArticleNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	cmd, err := tx.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return article.ErrArticleNotFound
	}
	return nil
}

func (r *postgresRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

func (r *postgresRepository) AuthorsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]article.Author, error) {
	query := `
		SELECT id, username, display_name, avatar_url
		FROM users
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	defer rows.Close()

	authors := make(map[uuid.UUID]article.Author, len(ids))
	for rows.Next() {
		var a article.Author
		if err := rows.Scan(&a.ID, &a.Username, &a.DisplayName, &a.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors[a.ID] = a
	}
	return authors, rows.Err()
}

func collectArticles(rows pgx.Rows) ([]article.Article, error) {
	var articles []article.Article
	for rows.Next() {
		var a article.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Slug,
			&a.Summary,
			&a.Content,
			&a.Tags,
			&a.Status,
			&a.AuthorID,
			&a.ViewCount,
			&a.LikeCount,
			&a.PublishedAt,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
