package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aic-hub-backend/internal/domains/space"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) space.Repository {
	return &postgresRepository{pool: pool}
}

const spaceColumns = `
	id, name, slug, description, tags, visibility, owner_id,
	member_count, article_count, created_at, updated_at
`

func scanSpace(row pgx.Row) (*space.Space, error) {
	var s space.Space
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Slug,
		&s.Description,
		&s.Tags,
		&s.Visibility,
		&s.OwnerID,
		&s.MemberCount,
		&s.ArticleCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *space.Space) (*space.Space, error) {
	query := `
		INSERT INTO spaces (name, slug, description, tags, visibility, owner_id, member_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + spaceColumns

	if s.Tags == nil {
		s.Tags = []string{}
	}

	created, err := scanSpace(tx.QueryRow(ctx, query,
		s.Name,
		s.Slug,
		s.Description,
		s.Tags,
		s.Visibility,
		s.OwnerID,
		s.MemberCount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*space.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces WHERE id = $1`

	s, err := scanSpace(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*space.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces WHERE slug = $1`

	s, err := scanSpace(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get space by slug: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM spaces
			WHERE slug = $1 AND ($2 = '00000000-0000-0000-0000-000000000000'::uuid OR id != $2)
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *space.ListFilter) ([]space.Space, int, error) {
	args := []any{}
	argPos := 1

	var where string
	if filter.MySpaces && filter.ViewerID != uuid.Nil {
		where = fmt.Sprintf(`WHERE s.id IN (SELECT space_id FROM space_members WHERE user_id = $%d)`, argPos)
		args = append(args, filter.ViewerID)
		argPos++
	} else if filter.ViewerID != uuid.Nil {
		where = fmt.Sprintf(`WHERE (s.visibility = 'public' OR s.id IN (SELECT space_id FROM space_members WHERE user_id = $%d))`, argPos)
		args = append(args, filter.ViewerID)
		argPos++
	} else {
		where = `WHERE s.visibility = 'public'`
	}

	if len(filter.Tags) > 0 {
		where += fmt.Sprintf(` AND s.tags && $%d`, argPos)
		args = append(args, filter.Tags)
		argPos++
	}

	if filter.Query != "" {
		where += fmt.Sprintf(` AND (s.name ILIKE $%d OR s.description ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}

	countQuery := `SELECT COUNT(*) FROM spaces s ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count spaces: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM spaces s
		%s
		ORDER BY s.member_count DESC, s.created_at DESC
		LIMIT $%d OFFSET $%d`, spaceSelectColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	spaces, err := collectSpaces(rows)
	if err != nil {
		return nil, 0, err
	}
	return spaces, total, nil
}

const spaceSelectColumns = `
	s.id, s.name, s.slug, s.description, s.tags, s.visibility, s.owner_id,
	s.member_count, s.article_count, s.created_at, s.updated_at
`

func collectSpaces(rows pgx.Rows) ([]space.Space, error) {
	spaces := []space.Space{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spaces: %w", err)
	}
	return spaces, nil
}

func (r *postgresRepository) UpdateTx(ctx context.Context, tx pgx.Tx, s *space.Space) error {
	query := `
		UPDATE spaces
		SET name = $2, description = $3, tags = $4, visibility = $5, updated_at = $6
		WHERE id = $1`

	ct, err := tx.Exec(ctx, query, s.ID, s.Name, s.Description, s.Tags, s.Visibility, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update space: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrSpaceNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	ct, err := tx.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrSpaceNotFound
	}
	return nil
}

func (r *postgresRepository) GetMemberRole(ctx context.Context, spaceID, userID uuid.UUID) (space.Role, bool, error) {
	query := `SELECT role FROM space_members WHERE space_id = $1 AND user_id = $2`

	var role space.Role
	err := r.pool.QueryRow(ctx, query, spaceID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get member role: %w", err)
	}
	return role, true, nil
}

func (r *postgresRepository) AddMemberTx(ctx context.Context, tx pgx.Tx, spaceID, userID uuid.UUID, role space.Role) error {
	query := `
		INSERT INTO space_members (space_id, user_id, role)
		VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, spaceID, userID, role); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveMemberTx(ctx context.Context, tx pgx.Tx, spaceID, userID uuid.UUID) error {
	ct, err := tx.Exec(ctx, `DELETE FROM space_members WHERE space_id = $1 AND user_id = $2`, spaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrNotMember
	}
	return nil
}

func (r *postgresRepository) UpdateMemberRole(ctx context.Context, spaceID, userID uuid.UUID, role space.Role) error {
	query := `UPDATE space_members SET role = $3 WHERE space_id = $1 AND user_id = $2`

	ct, err := r.pool.Exec(ctx, query, spaceID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrNotMember
	}
	return nil
}

func (r *postgresRepository) ListMembers(ctx context.Context, spaceID uuid.UUID, roleFilter space.Role, skip, limit int) ([]space.MemberResponse, int, error) {
	where := `WHERE m.space_id = $1`
	args := []any{spaceID}
	argPos := 2

	if roleFilter != "" {
		where += fmt.Sprintf(` AND m.role = $%d`, argPos)
		args = append(args, roleFilter)
		argPos++
	}

	countQuery := `SELECT COUNT(*) FROM space_members m ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT m.user_id, u.username, u.display_name, u.avatar_url, m.role, m.joined_at
		FROM space_members m
		JOIN users u ON u.id = m.user_id
		%s
		ORDER BY CASE m.role WHEN 'owner' THEN 0 WHEN 'moderator' THEN 1 ELSE 2 END, m.joined_at ASC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []space.MemberResponse{}
	for rows.Next() {
		var m space.MemberResponse
		if err := rows.Scan(&m.UserID, &m.Username, &m.DisplayName, &m.AvatarURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read members: %w", err)
	}
	return members, total, nil
}

func (r *postgresRepository) AdjustMemberCountTx(ctx context.Context, tx pgx.Tx, spaceID uuid.UUID, delta int) error {
	query := `UPDATE spaces SET member_count = GREATEST(member_count + $2, 0) WHERE id = $1`

	if _, err := tx.Exec(ctx, query, spaceID, delta); err != nil {
		return fmt.Errorf("failed to adjust member count: %w", err)
	}
	return nil
}

func (r *postgresRepository) AdjustArticleCountTx(ctx context.Context, tx pgx.Tx, spaceID uuid.UUID, delta int) error {
	query := `UPDATE spaces SET article_count = GREATEST(article_count + $2, 0) WHERE id = $1`

	if _, err := tx.Exec(ctx, query, spaceID, delta); err != nil {
		return fmt.Errorf("failed to adjust article count: %w", err)
	}
	return nil
}

func (r *postgresRepository) ArticleIsPublished(ctx context.Context, articleID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1 AND status = 'published')`

	var published bool
	if err := r.pool.QueryRow(ctx, query, articleID).Scan(&published); err != nil {
		return false, fmt.Errorf("failed to check article status: %w", err)
	}
	return published, nil
}

func (r *postgresRepository) GetSharedArticle(ctx context.Context, spaceID, articleID uuid.UUID) (*space.SharedArticle, error) {
	query := `
		SELECT space_id, article_id, added_by, pinned, added_at
		FROM space_articles
		WHERE space_id = $1 AND article_id = $2`

	var sa space.SharedArticle
	err := r.pool.QueryRow(ctx, query, spaceID, articleID).Scan(
		&sa.SpaceID, &sa.ArticleID, &sa.AddedBy, &sa.Pinned, &sa.AddedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shared article: %w", err)
	}
	return &sa, nil
}

func (r *postgresRepository) ShareArticleTx(ctx context.Context, tx pgx.Tx, share *space.SharedArticle) error {
	query := `
		INSERT INTO space_articles (space_id, article_id, added_by)
		VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, share.SpaceID, share.ArticleID, share.AddedBy); err != nil {
		return fmt.Errorf("failed to share article: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveSharedArticleTx(ctx context.Context, tx pgx.Tx, spaceID, articleID uuid.UUID) error {
	ct, err := tx.Exec(ctx, `DELETE FROM space_articles WHERE space_id = $1 AND article_id = $2`, spaceID, articleID)
	if err != nil {
		return fmt.Errorf("failed to remove shared article: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrArticleNotInSpace
	}
	return nil
}

func (r *postgresRepository) SetPinned(ctx context.Context, spaceID, articleID uuid.UUID, pinned bool) error {
	query := `UPDATE space_articles SET pinned = $3 WHERE space_id = $1 AND article_id = $2`

	ct, err := r.pool.Exec(ctx, query, spaceID, articleID, pinned)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return space.ErrArticleNotInSpace
	}
	return nil
}

func (r *postgresRepository) ListSharedArticles(ctx context.Context, spaceID uuid.UUID, pinnedFirst bool, skip, limit int) ([]space.SharedArticleResponse, int, error) {
	countQuery := `SELECT COUNT(*) FROM space_articles WHERE space_id = $1`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, spaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shared articles: %w", err)
	}

	order := `sa.added_at DESC`
	if pinnedFirst {
		order = `sa.pinned DESC, sa.added_at DESC`
	}

	query := fmt.Sprintf(`
		SELECT sa.article_id, a.title, a.slug, a.summary, a.tags, a.view_count,
		       a.published_at, sa.added_by, sa.pinned, sa.added_at
		FROM space_articles sa
		JOIN articles a ON a.id = sa.article_id
		WHERE sa.space_id = $1
		ORDER BY %s
		LIMIT $2 OFFSET $3`, order)

	rows, err := r.pool.Query(ctx, query, spaceID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shared articles: %w", err)
	}
	defer rows.Close()

	shared := []space.SharedArticleResponse{}
	for rows.Next() {
		var sa space.SharedArticleResponse
		if err := rows.Scan(
			&sa.ArticleID, &sa.Title, &sa.Slug, &sa.Summary, &sa.Tags, &sa.ViewCount,
			&sa.PublishedAt, &sa.AddedBy, &sa.Pinned, &sa.AddedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan shared article: %w", err)
		}
		shared = append(shared, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read shared articles: %w", err)
	}
	return shared, total, nil
}

func (r *postgresRepository) OwnersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]space.Owner, error) {
	query := `SELECT id, username, display_name, avatar_url FROM users WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}
	defer rows.Close()

	owners := make(map[uuid.UUID]space.Owner, len(ids))
	for rows.Next() {
		var o space.Owner
		if err := rows.Scan(&o.ID, &o.Username, &o.DisplayName, &o.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read owners: %w", err)
	}
	return owners, nil
}
