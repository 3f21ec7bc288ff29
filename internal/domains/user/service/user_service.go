package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/internal/domains/user"
	"aic-hub-backend/pkg/database"
)

type userService struct {
	pool    database.TxBeginner
	repo    user.Repository
	tagRepo tag.Repository
	indexer search.Indexer
}

func NewUserService(pool database.TxBeginner, repo user.Repository, tagRepo tag.Repository, indexer search.Indexer) user.Service {
	return &userService{
		pool:    pool,
		repo:    repo,
		tagRepo: tagRepo,
		indexer: indexer,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*user.PrivateProfile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	editable, err := s.IsUsernameGenerated(ctx, u)
	if err != nil {
		return nil, err
	}

	return user.ToPrivateProfile(u, editable), nil
}

func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, req *user.UpdateMeRequest) (*user.PrivateProfile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	usernameEditable, err := s.IsUsernameGenerated(ctx, u)
	if err != nil {
		return nil, err
	}

	mutated := false
	oldTags := append([]string{}, u.ExpertiseTags...)

	if req.DisplayName != nil {
		if applyText(&u.DisplayName, *req.DisplayName) {
			mutated = true
		}
	}
	if req.Bio != nil {
		if applyText(&u.Bio, *req.Bio) {
			mutated = true
		}
	}
	if req.Company != nil {
		if applyText(&u.Company, *req.Company) {
			mutated = true
		}
	}
	if req.Location != nil {
		if applyText(&u.Location, *req.Location) {
			mutated = true
		}
	}

	if req.ExpertiseTags != nil {
		normalized, err := normalizeExpertiseTags(*req.ExpertiseTags)
		if err != nil {
			return nil, err
		}
		if !equalStrings(normalized, u.ExpertiseTags) {
			u.ExpertiseTags = normalized
			mutated = true
		}
	}

	if req.Username != nil {
		normalized, err := user.NormalizeUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if normalized != u.Username {
			if !usernameEditable {
				return nil, user.ErrUsernameChangeNotAllowed
			}
			taken, err := s.repo.UsernameExists(ctx, normalized, u.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, user.ErrUsernameTaken
			}
			u.Username = normalized
			usernameEditable = false
			mutated = true
		}
	}

	if mutated {
		now := time.Now()
		u.UpdatedAt = &now

		// Profile write, expertise counter deltas, and the search index row
		// move together or not at all.
		err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
			if err := s.repo.UpdateTx(ctx, tx, u); err != nil {
				return err
			}
			for _, t := range diffStrings(oldTags, u.ExpertiseTags) {
				if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindUser, 1); err != nil {
					return err
				}
			}
			for _, t := range diffStrings(u.ExpertiseTags, oldTags) {
				if err := s.tagRepo.ApplyDelta(ctx, tx, t, tag.KindUser, -1); err != nil {
					return err
				}
			}
			return s.indexer.Upsert(ctx, tx, search.TypeUser, u.ID,
				indexTitle(u), stringOrEmpty(u.Bio), u.ExpertiseTags)
		})
		if err != nil {
			return nil, err
		}
	}

	if usernameEditable && mutated {
		usernameEditable, err = s.IsUsernameGenerated(ctx, u)
		if err != nil {
			return nil, err
		}
	}

	return user.ToPrivateProfile(u, usernameEditable), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*user.PublicProfile, error) {
	normalized, err := user.NormalizeUsername(username)
	if err != nil {
		return nil, user.ErrUserNotFound
	}

	u, err := s.repo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	return user.ToPublicProfile(u), nil
}

func (s *userService) ListUsers(ctx context.Context, filter *user.ListFilter) ([]user.PublicProfile, error) {
	if filter.Tag != "" && !tag.IsValid(filter.Tag) {
		return nil, user.ErrInvalidExpertiseTag
	}
	if filter.Limit <= 0 || filter.Limit > 50 {
		filter.Limit = 20
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	profiles := make([]user.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *user.ToPublicProfile(&users[i]))
	}
	return profiles, nil
}

func (s *userService) CheckUsername(ctx context.Context, userID uuid.UUID, username string) (*user.CheckUsernameResponse, error) {
	normalized, err := user.NormalizeUsername(username)
	if err != nil {
		return &user.CheckUsernameResponse{
			Available: false,
			Reason:    user.ErrInvalidUsername.Error(),
		}, nil
	}

	taken, err := s.repo.UsernameExists(ctx, normalized, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return &user.CheckUsernameResponse{
			Available:  false,
			Normalized: normalized,
			Reason:     "username is already taken",
		}, nil
	}

	return &user.CheckUsernameResponse{
		Available:  true,
		Normalized: normalized,
	}, nil
}

func (s *userService) GenerateUsername(ctx context.Context, email string, excludeID uuid.UUID) (string, error) {
	return user.GenerateUniqueUsername(ctx, email, excludeID, s.repo.UsernameExists)
}

func (s *userService) IsUsernameGenerated(ctx context.Context, u *user.User) (bool, error) {
	expected, err := user.GenerateUniqueUsername(ctx, u.Email, u.ID, s.repo.UsernameExists)
	if err != nil {
		return false, err
	}
	return expected == u.Username, nil
}

// applyText trims and applies an incoming optional text field; empty strings
// clear the value. Reports whether the field changed.
func applyText(dst **string, incoming string) bool {
	trimmed := strings.TrimSpace(incoming)
	var next *string
	if trimmed != "" {
		next = &trimmed
	}

	if *dst == nil && next == nil {
		return false
	}
	if *dst != nil && next != nil && **dst == *next {
		return false
	}
	*dst = next
	return true
}

func normalizeExpertiseTags(tags []string) ([]string, error) {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if !tag.IsValid(t) {
			return nil, user.ErrInvalidExpertiseTag
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		normalized = append(normalized, t)
	}
	if len(normalized) > user.MaxExpertiseTags {
		return nil, user.ErrInvalidExpertiseTag
	}
	return normalized, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
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

func indexTitle(u *user.User) string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
