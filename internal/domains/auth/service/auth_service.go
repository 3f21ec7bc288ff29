package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aic-hub-backend/internal/domains/auth"
	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/user"
	"aic-hub-backend/internal/infrastructure/github"
	"aic-hub-backend/pkg/database"
	"aic-hub-backend/pkg/logger"
	"aic-hub-backend/pkg/security"
)

// GitHubProvider is the slice of the OAuth client the service depends on.
type GitHubProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*github.User, error)
}

type authService struct {
	pool     database.TxBeginner
	repo     auth.Repository
	users    user.Repository
	limiter  *auth.RateLimiter
	tokens   *security.TokenManager
	provider GitHubProvider
	indexer  search.Indexer
}

func NewAuthService(
	pool database.TxBeginner,
	repo auth.Repository,
	users user.Repository,
	limiter *auth.RateLimiter,
	tokens *security.TokenManager,
	provider GitHubProvider,
	indexer search.Indexer,
) auth.Service {
	return &authService{
		pool:     pool,
		repo:     repo,
		users:    users,
		limiter:  limiter,
		tokens:   tokens,
		provider: provider,
		indexer:  indexer,
	}
}

func (s *authService) Signup(ctx context.Context, req *auth.SignupRequest, ip string) (*auth.SessionResult, error) {
	email := security.NormalizeEmail(req.Email)
	emailHash := security.HashEmail(email)

	if err := s.limiter.AssertWithinLimits(ctx, auth.ActionSignup, emailHash, ip); err != nil {
		var rateErr *auth.RateLimitError
		if errors.As(err, &rateErr) {
			s.recordFailure(ctx, auth.ActionSignup, &emailHash, ip, auth.ReasonRateLimited)
			logger.Warn("signup rate limited", map[string]interface{}{
				"scope": rateErr.Scope,
				"ip":    ip,
			})
		}
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Generic failure so the endpoint cannot be used to probe which
		// emails have accounts. The real reason lands in the audit log.
		s.recordFailure(ctx, auth.ActionSignup, &emailHash, ip, auth.ReasonDuplicateEmail)
		return nil, auth.ErrSignupFailed
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	username, err := user.GenerateUniqueUsername(ctx, email, uuid.Nil, s.users.UsernameExists)
	if err != nil {
		return nil, err
	}

	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (*user.User, error) {
		u, err := s.users.CreateTx(ctx, tx, &user.User{
			Email:        email,
			PasswordHash: &passwordHash,
			Username:     username,
		})
		if err != nil {
			return nil, err
		}
		if err := s.repo.RecordAttemptTx(ctx, tx, &auth.AuthAttempt{
			Action:    auth.ActionSignup,
			EmailHash: &emailHash,
			IPAddress: ip,
			Success:   true,
		}); err != nil {
			return nil, err
		}
		return u, s.indexer.Upsert(ctx, tx, search.TypeUser, u.ID, u.Username, "", nil)
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			// Lost a race with a concurrent signup for the same address.
			s.recordFailure(ctx, auth.ActionSignup, &emailHash, ip, auth.ReasonDuplicateEmail)
			return nil, auth.ErrSignupFailed
		}
		return nil, err
	}

	return s.session(created, true)
}

func (s *authService) Login(ctx context.Context, req *auth.LoginRequest, ip string) (*auth.SessionResult, error) {
	email := security.NormalizeEmail(req.Email)
	emailHash := security.HashEmail(email)

	if err := s.limiter.AssertWithinLimits(ctx, auth.ActionLogin, emailHash, ip); err != nil {
		var rateErr *auth.RateLimitError
		if errors.As(err, &rateErr) {
			s.recordFailure(ctx, auth.ActionLogin, &emailHash, ip, auth.ReasonRateLimited)
			logger.Warn("login rate limited", map[string]interface{}{
				"scope": rateErr.Scope,
				"ip":    ip,
			})
		}
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// Missing account, OAuth-only account, and wrong password all collapse
	// into the same response.
	if u == nil || u.PasswordHash == nil || !security.VerifyPassword(*u.PasswordHash, req.Password) {
		s.recordFailure(ctx, auth.ActionLogin, &emailHash, ip, auth.ReasonInvalidCredentials)
		return nil, auth.ErrInvalidCredentials
	}

	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.users.StampLastLoginTx(ctx, tx, u.ID); err != nil {
			return err
		}
		return s.repo.RecordAttemptTx(ctx, tx, &auth.AuthAttempt{
			Action:    auth.ActionLogin,
			EmailHash: &emailHash,
			IPAddress: ip,
			Success:   true,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.session(u, false)
}

func (s *authService) GithubLoginURL(ctx context.Context) (string, string, error) {
	state, signed, err := s.tokens.IssueState()
	if err != nil {
		return "", "", err
	}
	return s.provider.AuthURL(state), signed, nil
}

func (s *authService) GithubCallback(ctx context.Context, code, state, signedState, ip string) (*auth.SessionResult, error) {
	if code == "" || state == "" {
		return nil, auth.ErrMissingCallbackParam
	}
	if signedState == "" {
		return nil, auth.ErrInvalidState
	}
	if err := s.tokens.VerifyState(signedState, state); err != nil {
		return nil, auth.ErrInvalidState
	}

	// No email is known yet, so only the IP scope applies here.
	if err := s.limiter.AssertWithinLimits(ctx, auth.ActionLogin, "", ip); err != nil {
		var rateErr *auth.RateLimitError
		if errors.As(err, &rateErr) {
			s.recordFailure(ctx, auth.ActionLogin, nil, ip, auth.ReasonRateLimited)
		}
		return nil, err
	}

	ghUser, err := s.provider.Exchange(ctx, code)
	if err != nil {
		logger.Error("github exchange failed", err)
		return nil, auth.ErrProviderUnavailable
	}

	providerID := strconv.FormatInt(ghUser.ID, 10)

	account, err := s.repo.GetOAuthAccount(ctx, auth.ProviderGitHub, providerID)
	if err != nil {
		return nil, err
	}

	if account != nil {
		return s.callbackExistingLink(ctx, account, ghUser, ip)
	}

	email := security.NormalizeEmail(ghUser.Email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.callbackLinkUser(ctx, existing, ghUser, providerID, ip)
	}
	return s.callbackCreateUser(ctx, email, ghUser, providerID, ip)
}

// callbackExistingLink handles returning OAuth users.
func (s *authService) callbackExistingLink(ctx context.Context, account *auth.OAuthAccount, ghUser *github.User, ip string) (*auth.SessionResult, error) {
	u, err := s.users.GetByID(ctx, account.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	emailHash := security.HashEmail(u.Email)
	err = database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if refreshFromGitHub(u, ghUser) {
			if err := s.users.UpdateTx(ctx, tx, u); err != nil {
				return err
			}
		}
		if err := s.users.StampLastLoginTx(ctx, tx, u.ID); err != nil {
			return err
		}
		return s.repo.RecordAttemptTx(ctx, tx, &auth.AuthAttempt{
			Action:    auth.ActionLogin,
			EmailHash: &emailHash,
			IPAddress: ip,
			Success:   true,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.session(u, false)
}

// callbackLinkUser attaches a GitHub identity to an existing email/password
// account with the same address.
func (s *authService) callbackLinkUser(ctx context.Context, u *user.User, ghUser *github.User, providerID, ip string) (*auth.SessionResult, error) {
	emailHash := security.HashEmail(u.Email)
	err := database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.LinkAccountTx(ctx, tx, &auth.OAuthAccount{
			UserID:            u.ID,
			Provider:          auth.ProviderGitHub,
			ProviderAccountID: providerID,
		}); err != nil {
			return err
		}
		if refreshFromGitHub(u, ghUser) {
			if err := s.users.UpdateTx(ctx, tx, u); err != nil {
				return err
			}
		}
		if err := s.users.StampLastLoginTx(ctx, tx, u.ID); err != nil {
			return err
		}
		return s.repo.RecordAttemptTx(ctx, tx, &auth.AuthAttempt{
			Action:    auth.ActionLogin,
			EmailHash: &emailHash,
			IPAddress: ip,
			Success:   true,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.session(u, false)
}

// callbackCreateUser provisions a brand-new account from the GitHub profile.
func (s *authService) callbackCreateUser(ctx context.Context, email string, ghUser *github.User, providerID, ip string) (*auth.SessionResult, error) {
	username, err := user.GenerateUniqueUsername(ctx, email, uuid.Nil, s.users.UsernameExists)
	if err != nil {
		return nil, err
	}

	emailHash := security.HashEmail(email)
	newUser := &user.User{
		Email:    email,
		Username: username,
	}
	refreshFromGitHub(newUser, ghUser)

	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (*user.User, error) {
		u, err := s.users.CreateTx(ctx, tx, newUser)
		if err != nil {
			return nil, err
		}
		if err := s.repo.LinkAccountTx(ctx, tx, &auth.OAuthAccount{
			UserID:            u.ID,
			Provider:          auth.ProviderGitHub,
			ProviderAccountID: providerID,
		}); err != nil {
			return nil, err
		}
		if err := s.users.StampLastLoginTx(ctx, tx, u.ID); err != nil {
			return nil, err
		}
		if err := s.repo.RecordAttemptTx(ctx, tx, &auth.AuthAttempt{
			Action:    auth.ActionSignup,
			EmailHash: &emailHash,
			IPAddress: ip,
			Success:   true,
		}); err != nil {
			return nil, err
		}
		return u, s.indexer.Upsert(ctx, tx, search.TypeUser, u.ID, u.Username, stringOrEmpty(u.Bio), nil)
	})
	if err != nil {
		return nil, err
	}

	return s.session(created, true)
}

func (s *authService) session(u *user.User, created bool) (*auth.SessionResult, error) {
	token, err := s.tokens.IssueSession(u.ID)
	if err != nil {
		return nil, err
	}
	return &auth.SessionResult{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		Token:    token,
		Created:  created,
	}, nil
}

// recordFailure appends a failed attempt row. Audit writes never mask the
// error the caller is about to return.
func (s *authService) recordFailure(ctx context.Context, action auth.AuthAction, emailHash *string, ip, reason string) {
	err := s.repo.RecordAttempt(ctx, &auth.AuthAttempt{
		Action:    action,
		EmailHash: emailHash,
		IPAddress: ip,
		Success:   false,
		Reason:    &reason,
	})
	if err != nil {
		logger.Error("failed to record auth attempt", err)
	}
}

// refreshFromGitHub syncs profile fields from the provider. The avatar and
// github handle always follow GitHub; display name and bio are only filled
// when empty so they never clobber a user's own edits.
func refreshFromGitHub(u *user.User, ghUser *github.User) bool {
	changed := false

	if ghUser.AvatarURL != "" && (u.AvatarURL == nil || *u.AvatarURL != ghUser.AvatarURL) {
		avatar := ghUser.AvatarURL
		u.AvatarURL = &avatar
		changed = true
	}
	if ghUser.Login != "" && (u.GithubUsername == nil || *u.GithubUsername != ghUser.Login) {
		login := ghUser.Login
		u.GithubUsername = &login
		changed = true
	}
	if u.DisplayName == nil && ghUser.Name != "" {
		name := ghUser.Name
		u.DisplayName = &name
		changed = true
	}
	if u.Bio == nil && ghUser.Bio != "" {
		bio := ghUser.Bio
		u.Bio = &bio
		changed = true
	}

	return changed
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
