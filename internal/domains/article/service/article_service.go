package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aic-hub-backend/internal/domains/article"
	"aic-hub-backend/internal/domains/feed"
	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/pkg/database"
	"aic-hub-backend/pkg/logger"
)

type articleService struct {
	pool     database.TxBeginner
	repo     article.Repository
	tagRepo  tag.Repository
	indexer  search.Indexer
	recorder feed.ActivityRecorder
}

func NewArticleService(
	pool database.TxBeginner,
	repo article.Repository,
	tagRepo tag.Repository,
	indexer search.Indexer,
	recorder feed.ActivityRecorder,
) article.Service {
	return &articleService{
		pool:     pool,
		repo:     repo,
		tagRepo:  tagRepo,
		indexer:  indexer,
		recorder: recorder,
	}
}

// Create always starts the article as a draft. Tag counters and the search
// index are untouched until publication.
func (s *articleService) Create(ctx context.Context, authorID uuid.UUID, req *article.CreateRequest) (*article.Response, error) {
	slug, err := article.GenerateUniqueSlug(ctx, req.Title, uuid.Nil, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (*article.Article, error) {
		return s.repo.CreateTx(ctx, tx, &article.Article{
			Title:    req.Title,
			Slug:     slug,
			Summary:  req.Summary,
			Content:  req.Content,
			Tags:     tags,
			Status:   article.StatusDraft,
			AuthorID: authorID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, created, true)
}

func (s *articleService) List(ctx context.Context, filter *article.ListFilter) (*article.ListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	articles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses, err := s.respondMany(ctx, articles, false)
	if err != nil {
		return nil, err
	}

	return &article.ListResponse{
		Articles: responses,
		Total:    total,
		Skip:     filter.Skip,
		Limit:    filter.Limit,
	}, nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug string, viewerID uuid.UUID) (*article.Response, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, article.ErrArticleNotFound
	}

	// Drafts exist only for their author.
	if !a.Published() && a.AuthorID != viewerID {
		return nil, article.ErrArticleNotFound
	}

	if a.Published() {
		if err := s.repo.IncrementViewCount(ctx, a.ID); err != nil {
			logger.Error("failed to increment view count", err)
		} else {
			a.ViewCount++
		}
	}

	return s.respond(ctx, a, true)
}

func (s *articleService) Drafts(ctx context.Context, authorID uuid.UUID) ([]article.Response, error) {
	drafts, err := s.repo.ListDrafts(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, drafts, false)
}

func (s *articleService) Update(ctx context.Context, id, authorID uuid.UUID, req *article.UpdateRequest) (*article.Response, error) {
	a, err := s.loadOwned(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	originalTags := append([]string{}, a.Tags...)
	originalPublished := a.Published()

	if req.Title != nil && *req.Title != a.Title {
		a.Title = *req.Title
		slug, err := article.GenerateUniqueSlug(ctx, a.Title, a.ID, s.repo.SlugExists)
		if err != nil {
			return nil, err
		}
		a.Slug = slug
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.Summary != nil {
		a.Summary = req.Summary
	}
	if req.Tags != nil {
		a.Tags = req.Tags
	}
	if req.Status != nil {
		s.applyStatus(a, *req.Status)
	}

	now := time.Now()
	a.UpdatedAt = &now

	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		return s.syncAfterChange(ctx, tx, a, originalTags, originalPublished)
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, a, true)
}

func (s *articleService) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	a, err := s.loadOwned(ctx, id, authorID)
	if err != nil {
		return err
	}

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, a.ID); err != nil {
			return err
		}
		if !a.Published() {
			return nil
		}
		for _, t := range a.Tags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindArticle, -1); err != nil {
				return err
			}
		}
		return s.indexer.Delete(ctx, tx, search.TypeArticle, a.ID)
	})
}

func (s *articleService) Publish(ctx context.Context, id, authorID uuid.UUID) (*article.Response, error) {
	return s.transition(ctx, id, authorID, article.StatusPublished)
}

func (s *articleService) Unpublish(ctx context.Context, id, authorID uuid.UUID) (*article.Response, error) {
	return s.transition(ctx, id, authorID, article.StatusDraft)
}

func (s *articleService) transition(ctx context.Context, id, authorID uuid.UUID, target article.Status) (*article.Response, error) {
	a, err := s.loadOwned(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	// Repeating the current state is a no-op, not an error.
	if a.Status == target {
		return s.respond(ctx, a, true)
	}

	originalTags := append([]string{}, a.Tags...)
	originalPublished := a.Published()
	s.applyStatus(a, target)

	now := time.Now()
	a.UpdatedAt = &now

	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, a); err != nil {
			return err
		}
		return s.syncAfterChange(ctx, tx, a, originalTags, originalPublished)
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, a, true)
}

func (s *articleService) applyStatus(a *article.Article, target article.Status) {
	switch {
	case target == article.StatusPublished && a.Status == article.StatusDraft:
		now := time.Now()
		a.Status = article.StatusPublished
		a.PublishedAt = &now
	case target == article.StatusDraft && a.Status == article.StatusPublished:
		a.Status = article.StatusDraft
		a.PublishedAt = nil
	}
}

// syncAfterChange reconciles tag counters, the search index, and the
// activity log after an article row was written in tx.
func (s *articleService) syncAfterChange(ctx context.Context, tx pgx.Tx, a *article.Article, originalTags []string, originalPublished bool) error {
	switch {
	case !originalPublished && a.Published():
		// Freshly published: count every current tag.
		for _, t := range a.Tags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindArticle, 1); err != nil {
				return err
			}
		}
		if err := s.upsertIndex(ctx, tx, a); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, &feed.Activity{
			ActorID:    a.AuthorID,
			Action:     feed.ActionArticlePublished,
			TargetType: feed.TargetArticle,
			TargetID:   a.ID,
			Metadata:   map[string]any{"title": a.Title, "slug": a.Slug},
		})

	case originalPublished && !a.Published():
		// Unpublished: release the tags it held while live.
		for _, t := range originalTags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindArticle, -1); err != nil {
				return err
			}
		}
		return s.indexer.Delete(ctx, tx, search.TypeArticle, a.ID)

	case a.Published():
		// Still published: reconcile the tag diff and refresh the index.
		for _, t := range diffStrings(a.Tags, originalTags) {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindArticle, -1); err != nil {
				return err
			}
		}
		for _, t := range diffStrings(originalTags, a.Tags) {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindArticle, 1); err != nil {
				return err
			}
		}
		return s.upsertIndex(ctx, tx, a)
	}

	return nil
}

func (s *articleService) upsertIndex(ctx context.Context, tx pgx.Tx, a *article.Article) error {
	summary := ""
	if a.Summary != nil {
		summary = *a.Summary
	}
	return s.indexer.Upsert(ctx, tx, search.TypeArticle, a.ID, a.Title, summary, a.Tags)
}

func (s *articleService) loadOwned(ctx context.Context, id, authorID uuid.UUID) (*article.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, article.ErrArticleNotFound
	}
	if a.AuthorID != authorID {
		return nil, article.ErrNotAuthor
	}
	return a, nil
}

func (s *articleService) respond(ctx context.Context, a *article.Article, includeContent bool) (*article.Response, error) {
	authors, err := s.repo.AuthorsByID(ctx, []uuid.UUID{a.AuthorID})
	if err != nil {
		return nil, err
	}
	var author *article.Author
	if found, ok := authors[a.AuthorID]; ok {
		author = &found
	}
	return article.ToResponse(a, author, includeContent), nil
}

func (s *articleService) respondMany(ctx context.Context, articles []article.Article, includeContent bool) ([]article.Response, error) {
	ids := make([]uuid.UUID, 0, len(articles))
	seen := make(map[uuid.UUID]struct{}, len(articles))
	for i := range articles {
		if _, ok := seen[articles[i].AuthorID]; ok {
			continue
		}
		seen[articles[i].AuthorID] = struct{}{}
		ids = append(ids, articles[i].AuthorID)
	}

	authors := map[uuid.UUID]article.Author{}
	if len(ids) > 0 {
		var err error
		authors, err = s.repo.AuthorsByID(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]article.Response, 0, len(articles))
	for i := range articles {
		var author *article.Author
		if found, ok := authors[articles[i].AuthorID]; ok {
			author = &found
		}
		responses = append(responses, *article.ToResponse(&articles[i], author, includeContent))
	}
	return responses, nil
}

// diffStrings returns elements of b that are not in a.
func diffStrings(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range b {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
