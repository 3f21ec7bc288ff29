package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/feed"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) feed.Repository {
	return &postgresRepository{pool: pool}
}

const insertActivityQuery = `
	INSERT INTO activities (actor_id, action, target_type, target_id, metadata)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`

func (r *postgresRepository) InsertActivity(ctx context.Context, a *feed.Activity) error {
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	err := r.pool.QueryRow(ctx, insertActivityQuery,
		a.ActorID, a.Action, a.TargetType, a.TargetID, a.Metadata,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *postgresRepository) InsertActivityTx(ctx context.Context, tx pgx.Tx, a *feed.Activity) error {
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	err := tx.QueryRow(ctx, insertActivityQuery,
		a.ActorID, a.Action, a.TargetType, a.TargetID, a.Metadata,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListActivities(ctx context.Context, filter *feed.ActivityFilter) ([]feed.Activity, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.ActorID != uuid.Nil {
		where += fmt.Sprintf(` AND actor_id = $%d`, argPos)
		args = append(args, filter.ActorID)
		argPos++
	}
	if filter.TargetType != "" {
		where += fmt.Sprintf(` AND target_type = $%d`, argPos)
		args = append(args, filter.TargetType)
		argPos++
	}
	if filter.TargetID != uuid.Nil {
		where += fmt.Sprintf(` AND target_id = $%d`, argPos)
		args = append(args, filter.TargetID)
		argPos++
	}

	countQuery := `SELECT COUNT(*) FROM activities ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, actor_id, action, target_type, target_id, metadata, created_at
		FROM activities
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []feed.Activity{}
	for rows.Next() {
		var a feed.Activity
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Action, &a.TargetType, &a.TargetID, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read activities: %w", err)
	}
	return activities, total, nil
}

func (r *postgresRepository) DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old activities: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *postgresRepository) InteractionCounts(ctx context.Context, targetType feed.TargetType, ids []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	query := `
		SELECT target_id, COUNT(*)
		FROM activities
		WHERE target_type = $1 AND target_id = ANY($2) AND created_at >= $3
		GROUP BY target_id`

	rows, err := r.pool.Query(ctx, query, targetType, ids, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan interaction count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

const feedArticleColumns = `
	a.id, a.title, a.slug, a.summary, a.tags, a.author_id,
	COALESCE(u.display_name, u.username), a.view_count, a.published_at
`

func collectFeedArticles(rows pgx.Rows) ([]feed.FeedArticle, error) {
	articles := []feed.FeedArticle{}
	for rows.Next() {
		var a feed.FeedArticle
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Tags, &a.AuthorID,
			&a.AuthorName, &a.ViewCount, &a.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed articles: %w", err)
	}
	return articles, nil
}

func (r *postgresRepository) LatestArticles(ctx context.Context, tags []string, skip, limit int) ([]feed.FeedArticle, int, error) {
	where := `WHERE a.status = 'published'`
	args := []any{}
	argPos := 1

	if len(tags) > 0 {
		where += fmt.Sprintf(` AND a.tags && $%d`, argPos)
		args = append(args, tags)
		argPos++
	}

	countQuery := `SELECT COUNT(*) FROM articles a ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feed articles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
		ORDER BY a.published_at DESC
		LIMIT $%d OFFSET $%d`, feedArticleColumns, where, argPos, argPos+1)
	args = append(args, limit, skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list feed articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectFeedArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *postgresRepository) ArticlesByTags(ctx context.Context, tags []string, skip, limit int) ([]feed.FeedArticle, int, error) {
	where := `WHERE a.status = 'published' AND a.tags && $1`
	args := []any{tags}

	countQuery := `SELECT COUNT(*) FROM articles a ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recommended articles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
		ORDER BY a.view_count DESC, a.published_at DESC
		LIMIT $2 OFFSET $3`, feedArticleColumns, where)

	rows, err := r.pool.Query(ctx, query, tags, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recommended articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectFeedArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// FollowedArticles are articles shared into spaces the user belongs to.
func (r *postgresRepository) FollowedArticles(ctx context.Context, userID uuid.UUID, skip, limit int) ([]feed.FeedArticle, int, error) {
	where := `
		WHERE a.status = 'published'
		  AND a.id IN (
		      SELECT sa.article_id FROM space_articles sa
		      JOIN space_members m ON m.space_id = sa.space_id
		      WHERE m.user_id = $1
		  )`

	countQuery := `SELECT COUNT(*) FROM articles a ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count followed articles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
		ORDER BY a.published_at DESC
		LIMIT $2 OFFSET $3`, feedArticleColumns, where)

	rows, err := r.pool.Query(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followed articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectFeedArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *postgresRepository) ArticlesSince(ctx context.Context, since time.Time, limit int) ([]feed.FeedArticle, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.status = 'published' AND a.published_at >= $1
		ORDER BY a.view_count DESC
		LIMIT $2`, feedArticleColumns)

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending candidates: %w", err)
	}
	defer rows.Close()

	return collectFeedArticles(rows)
}

func (r *postgresRepository) RisingArticles(ctx context.Context, window time.Duration, limit int) ([]feed.FeedArticle, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.status = 'published' AND a.published_at >= $1
		ORDER BY a.view_count DESC
		LIMIT $2`, feedArticleColumns)

	rows, err := r.pool.Query(ctx, query, time.Now().Add(-window), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rising articles: %w", err)
	}
	defer rows.Close()

	return collectFeedArticles(rows)
}

func (r *postgresRepository) ActiveSpaces(ctx context.Context, limit int) ([]feed.FeedSpace, error) {
	query := `
		SELECT id, name, slug, description, tags, member_count, article_count
		FROM spaces
		WHERE visibility = 'public'
		ORDER BY COALESCE(updated_at, created_at) DESC, member_count DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active spaces: %w", err)
	}
	defer rows.Close()

	spaces := []feed.FeedSpace{}
	for rows.Next() {
		var s feed.FeedSpace
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Tags, &s.MemberCount, &s.ArticleCount); err != nil {
			return nil, fmt.Errorf("failed to scan active space: %w", err)
		}
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

func (r *postgresRepository) NewUsers(ctx context.Context, since time.Time, limit int) ([]feed.FeedUser, error) {
	query := `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list new users: %w", err)
	}
	defer rows.Close()

	users := []feed.FeedUser{}
	for rows.Next() {
		var u feed.FeedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan new user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*feed.UserPreferences, error) {
	query := `
		SELECT user_id, preferred_tags, feed_view, email_digest, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1`

	var p feed.UserPreferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.PreferredTags, &p.FeedView, &p.EmailDigest, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &feed.UserPreferences{
				UserID:        userID,
				PreferredTags: []string{},
				FeedView:      feed.ViewLatest,
			}, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) UpsertPreferences(ctx context.Context, p *feed.UserPreferences) error {
	query := `
		INSERT INTO user_preferences (user_id, preferred_tags, feed_view, email_digest)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET preferred_tags = $2, feed_view = $3, email_digest = $4, updated_at = NOW()`

	if p.PreferredTags == nil {
		p.PreferredTags = []string{}
	}
	if _, err := r.pool.Exec(ctx, query, p.UserID, p.PreferredTags, p.FeedView, p.EmailDigest); err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

func (r *postgresRepository) IncrementArticleViews(ctx context.Context, articleID uuid.UUID) error {
	query := `UPDATE articles SET view_count = view_count + 1 WHERE id = $1 AND status = 'published'`

	if _, err := r.pool.Exec(ctx, query, articleID); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}
