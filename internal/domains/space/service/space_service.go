package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aic-hub-backend/internal/domains/feed"
	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/space"
	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/internal/shared/utils"
	"aic-hub-backend/pkg/database"
)

type spaceService struct {
	pool     database.TxBeginner
	repo     space.Repository
	tagRepo  tag.Repository
	indexer  search.Indexer
	recorder feed.ActivityRecorder
}

func NewSpaceService(
	pool database.TxBeginner,
	repo space.Repository,
	tagRepo tag.Repository,
	indexer search.Indexer,
	recorder feed.ActivityRecorder,
) space.Service {
	return &spaceService{
		pool:     pool,
		repo:     repo,
		tagRepo:  tagRepo,
		indexer:  indexer,
		recorder: recorder,
	}
}

func (s *spaceService) Create(ctx context.Context, ownerID uuid.UUID, req *space.CreateRequest) (*space.Response, error) {
	base := utils.GenerateSlug(req.Name)
	if base == "" {
		base = "space"
	}
	slug, err := utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, uuid.Nil)
	})
	if err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (*space.Space, error) {
		sp, err := s.repo.CreateTx(ctx, tx, &space.Space{
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			Tags:        tags,
			Visibility:  req.Visibility,
			OwnerID:     ownerID,
			MemberCount: 1,
		})
		if err != nil {
			return nil, err
		}
		if err := s.repo.AddMemberTx(ctx, tx, sp.ID, ownerID, space.RoleOwner); err != nil {
			return nil, err
		}
		if sp.Public() {
			for _, t := range sp.Tags {
				if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, 1); err != nil {
					return nil, err
				}
			}
			if err := s.upsertIndex(ctx, tx, sp); err != nil {
				return nil, err
			}
		}
		return sp, s.recorder.RecordTx(ctx, tx, &feed.Activity{
			ActorID:    ownerID,
			Action:     feed.ActionSpaceCreated,
			TargetType: feed.TargetSpace,
			TargetID:   sp.ID,
			Metadata:   map[string]any{"space_name": sp.Name, "visibility": string(sp.Visibility)},
		})
	})
	if err != nil {
		return nil, err
	}

	role := space.RoleOwner
	return s.respond(ctx, created, &role)
}

func (s *spaceService) List(ctx context.Context, filter *space.ListFilter) (*space.ListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	spaces, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]uuid.UUID, 0, len(spaces))
	seen := map[uuid.UUID]struct{}{}
	for i := range spaces {
		if _, ok := seen[spaces[i].OwnerID]; !ok {
			seen[spaces[i].OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, spaces[i].OwnerID)
		}
	}
	owners := map[uuid.UUID]space.Owner{}
	if len(ownerIDs) > 0 {
		owners, err = s.repo.OwnersByID(ctx, ownerIDs)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]space.Response, 0, len(spaces))
	for i := range spaces {
		var owner *space.Owner
		if o, ok := owners[spaces[i].OwnerID]; ok {
			owner = &o
		}
		var memberRole *space.Role
		if filter.ViewerID != uuid.Nil {
			if role, isMember, err := s.repo.GetMemberRole(ctx, spaces[i].ID, filter.ViewerID); err != nil {
				return nil, err
			} else if isMember {
				memberRole = &role
			}
		}
		responses = append(responses, *space.ToResponse(&spaces[i], owner, memberRole))
	}

	return &space.ListResponse{
		Spaces: responses,
		Total:  total,
		Skip:   filter.Skip,
		Limit:  filter.Limit,
	}, nil
}

func (s *spaceService) GetBySlug(ctx context.Context, slug string, viewerID uuid.UUID) (*space.Response, error) {
	sp, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, space.ErrSpaceNotFound
	}

	var memberRole *space.Role
	if viewerID != uuid.Nil {
		role, isMember, err := s.repo.GetMemberRole(ctx, sp.ID, viewerID)
		if err != nil {
			return nil, err
		}
		if isMember {
			memberRole = &role
		}
	}

	if !sp.Public() && memberRole == nil {
		return nil, space.ErrAccessDenied
	}

	return s.respondWithRole(ctx, sp, memberRole)
}

func (s *spaceService) Update(ctx context.Context, id, userID uuid.UUID, req *space.UpdateRequest) (*space.Response, error) {
	sp, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	originalTags := append([]string{}, sp.Tags...)
	originalPublic := sp.Public()

	// The slug never changes after creation; shared links stay stable.
	if req.Name != nil {
		sp.Name = *req.Name
	}
	if req.Description != nil {
		sp.Description = req.Description
	}
	if req.Tags != nil {
		sp.Tags = req.Tags
	}
	if req.Visibility != nil {
		sp.Visibility = *req.Visibility
	}

	now := time.Now()
	sp.UpdatedAt = &now

	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, sp); err != nil {
			return err
		}
		return s.syncAfterChange(ctx, tx, sp, originalTags, originalPublic)
	})
	if err != nil {
		return nil, err
	}

	role := space.RoleOwner
	return s.respondWithRole(ctx, sp, &role)
}

func (s *spaceService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	sp, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, sp.ID); err != nil {
			return err
		}
		if !sp.Public() {
			return nil
		}
		for _, t := range sp.Tags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, -1); err != nil {
				return err
			}
		}
		return s.indexer.Delete(ctx, tx, search.TypeSpace, sp.ID)
	})
}

func (s *spaceService) Join(ctx context.Context, id, userID uuid.UUID) (space.Role, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if sp == nil {
		return "", space.ErrSpaceNotFound
	}

	_, isMember, err := s.repo.GetMemberRole(ctx, sp.ID, userID)
	if err != nil {
		return "", err
	}
	if isMember {
		return "", space.ErrAlreadyMember
	}

	// Private spaces are invite-only; self-serve joining is public only.
	if !sp.Public() {
		return "", space.ErrAccessDenied
	}

	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.AddMemberTx(ctx, tx, sp.ID, userID, space.RoleMember); err != nil {
			return err
		}
		if err := s.repo.AdjustMemberCountTx(ctx, tx, sp.ID, 1); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, &feed.Activity{
			ActorID:    userID,
			Action:     feed.ActionSpaceJoined,
			TargetType: feed.TargetSpace,
			TargetID:   sp.ID,
			Metadata:   map[string]any{"role": string(space.RoleMember)},
		})
	})
	if err != nil {
		return "", err
	}

	return space.RoleMember, nil
}

func (s *spaceService) Leave(ctx context.Context, id, userID uuid.UUID) error {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sp == nil {
		return space.ErrSpaceNotFound
	}
	if sp.OwnerID == userID {
		return space.ErrOwnerCannotLeave
	}

	_, isMember, err := s.repo.GetMemberRole(ctx, sp.ID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return space.ErrNotMember
	}

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.RemoveMemberTx(ctx, tx, sp.ID, userID); err != nil {
			return err
		}
		if err := s.repo.AdjustMemberCountTx(ctx, tx, sp.ID, -1); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, &feed.Activity{
			ActorID:    userID,
			Action:     feed.ActionSpaceLeft,
			TargetType: feed.TargetSpace,
			TargetID:   sp.ID,
			Metadata:   map[string]any{},
		})
	})
}

func (s *spaceService) Members(ctx context.Context, id, viewerID uuid.UUID, roleFilter space.Role, skip, limit int) ([]space.MemberResponse, int, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if sp == nil {
		return nil, 0, space.ErrSpaceNotFound
	}
	if err := s.assertAccess(ctx, sp, viewerID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListMembers(ctx, id, roleFilter, skip, limit)
}

func (s *spaceService) UpdateMemberRole(ctx context.Context, id, actorID, memberID uuid.UUID, role space.Role) error {
	if role != space.RoleModerator && role != space.RoleMember {
		return space.ErrInvalidRole
	}

	if err := s.assertModerator(ctx, id, actorID); err != nil {
		return err
	}

	current, isMember, err := s.repo.GetMemberRole(ctx, id, memberID)
	if err != nil {
		return err
	}
	if !isMember {
		return space.ErrNotMember
	}
	if current == space.RoleOwner {
		return space.ErrCannotChangeOwner
	}

	return s.repo.UpdateMemberRole(ctx, id, memberID, role)
}

func (s *spaceService) ShareArticle(ctx context.Context, id, userID uuid.UUID, req *space.ShareArticleRequest) error {
	_, isMember, err := s.repo.GetMemberRole(ctx, id, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return space.ErrNotMember
	}

	published, err := s.repo.ArticleIsPublished(ctx, req.ArticleID)
	if err != nil {
		return err
	}
	if !published {
		return space.ErrArticleNotShareable
	}

	existing, err := s.repo.GetSharedArticle(ctx, id, req.ArticleID)
	if err != nil {
		return err
	}
	if existing != nil {
		return space.ErrAlreadyShared
	}

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.ShareArticleTx(ctx, tx, &space.SharedArticle{
			SpaceID:   id,
			ArticleID: req.ArticleID,
			AddedBy:   userID,
		}); err != nil {
			return err
		}
		if err := s.repo.AdjustArticleCountTx(ctx, tx, id, 1); err != nil {
			return err
		}
		return s.recorder.RecordTx(ctx, tx, &feed.Activity{
			ActorID:    userID,
			Action:     feed.ActionArticleShared,
			TargetType: feed.TargetArticle,
			TargetID:   req.ArticleID,
			Metadata:   map[string]any{"space_id": id.String()},
		})
	})
}

func (s *spaceService) ListArticles(ctx context.Context, id, viewerID uuid.UUID, pinnedFirst bool, skip, limit int) ([]space.SharedArticleResponse, int, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if sp == nil {
		return nil, 0, space.ErrSpaceNotFound
	}
	if err := s.assertAccess(ctx, sp, viewerID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListSharedArticles(ctx, id, pinnedFirst, skip, limit)
}

func (s *spaceService) PinArticle(ctx context.Context, id, actorID, articleID uuid.UUID, pinned bool) error {
	if err := s.assertModerator(ctx, id, actorID); err != nil {
		return err
	}

	existing, err := s.repo.GetSharedArticle(ctx, id, articleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return space.ErrArticleNotInSpace
	}

	return s.repo.SetPinned(ctx, id, articleID, pinned)
}

func (s *spaceService) RemoveArticle(ctx context.Context, id, actorID, articleID uuid.UUID) error {
	if err := s.assertModerator(ctx, id, actorID); err != nil {
		return err
	}

	existing, err := s.repo.GetSharedArticle(ctx, id, articleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return space.ErrArticleNotInSpace
	}

	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.RemoveSharedArticleTx(ctx, tx, id, articleID); err != nil {
			return err
		}
		return s.repo.AdjustArticleCountTx(ctx, tx, id, -1)
	})
}

// syncAfterChange reconciles tag counters and the search index after a
// space row was written in tx. Visibility flips behave like
// publish/unpublish does for articles.
func (s *spaceService) syncAfterChange(ctx context.Context, tx pgx.Tx, sp *space.Space, originalTags []string, originalPublic bool) error {
	switch {
	case !originalPublic && sp.Public():
		for _, t := range sp.Tags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, 1); err != nil {
				return err
			}
		}
		return s.upsertIndex(ctx, tx, sp)

	case originalPublic && !sp.Public():
		for _, t := range originalTags {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, -1); err != nil {
				return err
			}
		}
		return s.indexer.Delete(ctx, tx, search.TypeSpace, sp.ID)

	case sp.Public():
		for _, t := range diffStrings(sp.Tags, originalTags) {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, -1); err != nil {
				return err
			}
		}
		for _, t := range diffStrings(originalTags, sp.Tags) {
			if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindSpace, 1); err != nil {
				return err
			}
		}
		return s.upsertIndex(ctx, tx, sp)
	}

	return nil
}

func (s *spaceService) upsertIndex(ctx context.Context, tx pgx.Tx, sp *space.Space) error {
	description := ""
	if sp.Description != nil {
		description = *sp.Description
	}
	return s.indexer.Upsert(ctx, tx, search.TypeSpace, sp.ID, sp.Name, description, sp.Tags)
}

func (s *spaceService) assertAccess(ctx context.Context, sp *space.Space, viewerID uuid.UUID) error {
	if sp.Public() {
		return nil
	}
	if viewerID == uuid.Nil {
		return space.ErrAccessDenied
	}
	_, isMember, err := s.repo.GetMemberRole(ctx, sp.ID, viewerID)
	if err != nil {
		return err
	}
	if !isMember {
		return space.ErrAccessDenied
	}
	return nil
}

func (s *spaceService) assertModerator(ctx context.Context, spaceID, userID uuid.UUID) error {
	role, isMember, err := s.repo.GetMemberRole(ctx, spaceID, userID)
	if err != nil {
		return err
	}
	if !isMember || (role != space.RoleOwner && role != space.RoleModerator) {
		return space.ErrNotModerator
	}
	return nil
}

func (s *spaceService) loadOwned(ctx context.Context, id, userID uuid.UUID) (*space.Space, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, space.ErrSpaceNotFound
	}
	if sp.OwnerID != userID {
		return nil, space.ErrNotOwner
	}
	return sp, nil
}

func (s *spaceService) respond(ctx context.Context, sp *space.Space, role *space.Role) (*space.Response, error) {
	return s.respondWithRole(ctx, sp, role)
}

func (s *spaceService) respondWithRole(ctx context.Context, sp *space.Space, role *space.Role) (*space.Response, error) {
	owners, err := s.repo.OwnersByID(ctx, []uuid.UUID{sp.OwnerID})
	if err != nil {
		return nil, err
	}
	var owner *space.Owner
	if o, ok := owners[sp.OwnerID]; ok {
		owner = &o
	}
	return space.ToResponse(sp, owner, role), nil
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
