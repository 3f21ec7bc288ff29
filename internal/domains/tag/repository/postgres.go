package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/tag"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) tag.Repository {
	return &postgresRepository{pool: pool}
}

// countColumn maps an entity kind to its counter column. The switch keeps
// the column name out of user-controlled input.
func countColumn(kind tag.EntityKind) (string, error) {
	switch kind {
	case tag.KindArticle:
		return "article_count", nil
	case tag.KindSpace:
		return "space_count", nil
	case tag.KindUser:
		return "user_count", nil
	}
	return "", fmt.Errorf("unknown entity kind %q", kind)
}

func (r *postgresRepository) ApplyDelta(ctx context.Context, tx pgx.Tx, tagName string, kind tag.EntityKind, delta int) error {
	if !tag.IsValid(tagName) {
		return nil
	}
	if delta == 0 {
		return nil
	}

	column, err := countColumn(kind)
	if err != nil {
		return err
	}

	var query string
	if delta > 0 {
		query = fmt.Sprintf(`
			INSERT INTO tag_usage (tag, %[1]s, week_count, month_count, last_used_at)
			VALUES ($1, $2, $2, $2, NOW())
			ON CONFLICT (tag) DO UPDATE SET
				%[1]s = GREATEST(0, tag_usage.%[1]s + $2),
				week_count = tag_usage.week_count + $2,
				month_count = tag_usage.month_count + $2,
				last_used_at = NOW()
		`, column)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO tag_usage (tag, %[1]s)
			VALUES ($1, 0)
			ON CONFLICT (tag) DO UPDATE SET
				%[1]s = GREATEST(0, tag_usage.%[1]s + $2)
		`, column)
	}

	if _, err := tx.Exec(ctx, query, tagName, delta); err != nil {
		return fmt.Errorf("failed to apply tag delta for %s: %w", tagName, err)
	}
	return nil
}

func (r *postgresRepository) GetUsage(ctx context.Context, tagName string) (*tag.TagUsage, error) {
	query := `
		SELECT tag, article_count, space_count, user_count,
			last_used_at, trending_score, week_count, month_count
		FROM tag_usage
		WHERE tag = $1
	`

	var usage tag.TagUsage
	err := r.pool.QueryRow(ctx, query, tagName).Scan(
		&usage.Tag,
		&usage.ArticleCount,
		&usage.SpaceCount,
		&usage.UserCount,
		&usage.LastUsedAt,
		&usage.TrendingScore,
		&usage.WeekCount,
		&usage.MonthCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag usage: %w", err)
	}

	return &usage, nil
}

func (r *postgresRepository) ListUsage(ctx context.Context, filter *tag.ListFilter) ([]tag.TagUsage, error) {
	query := `
		SELECT tag, article_count, space_count, user_count,
			last_used_at, trending_score, week_count, month_count
		FROM tag_usage
	`

	switch filter.Category {
	case "with_content":
		query += " WHERE article_count > 0 OR space_count > 0"
	case "with_experts":
		query += " WHERE user_count > 0"
	}

	switch filter.Sort {
	case "alphabetical":
		query += " ORDER BY tag"
	case "trending":
		query += " ORDER BY trending_score DESC"
	default:
		query += " ORDER BY (article_count + space_count + user_count) DESC"
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tag usage: %w", err)
	}
	defer rows.Close()

	var usages []tag.TagUsage
	for rows.Next() {
		var usage tag.TagUsage
		if err := rows.Scan(
			&usage.Tag,
			&usage.ArticleCount,
			&usage.SpaceCount,
			&usage.UserCount,
			&usage.LastUsedAt,
			&usage.TrendingScore,
			&usage.WeekCount,
			&usage.MonthCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tag usage: %w", err)
		}
		usages = append(usages, usage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tag usage rows: %w", err)
	}

	return usages, nil
}

func (r *postgresRepository) UpdateTrendingScore(ctx context.Context, tagName string, score float64) error {
	query := `UPDATE tag_usage SET trending_score = $2 WHERE tag = $1`
	if _, err := r.pool.Exec(ctx, query, tagName, score); err != nil {
		return fmt.Errorf("failed to update trending score: %w", err)
	}
	return nil
}

func (r *postgresRepository) ResetPeriodicCounts(ctx context.Context, period tag.ResetPeriod) error {
	var query string
	switch period {
	case tag.PeriodWeek:
		query = `UPDATE tag_usage SET week_count = 0`
	case tag.PeriodMonth:
		query = `UPDATE tag_usage SET week_count = 0, month_count = 0`
	default:
		return tag.ErrInvalidPeriod
	}

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to reset periodic counts: %w", err)
	}
	return nil
}
