package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aic-hub-backend/internal/domains/auth"
	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/internal/domains/user"
	"aic-hub-backend/internal/infrastructure/github"
	"aic-hub-backend/pkg/security"
)

// fakeTx satisfies pgx.Tx for paths that only commit or roll back; any
// other method panics through the embedded nil interface.
type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type indexedEntry struct {
	entityType search.EntityType
	entityID   uuid.UUID
	title      string
}

type fakeIndexer struct {
	upserts []indexedEntry
}

func (f *fakeIndexer) Upsert(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID, title, content string, tags []string) error {
	f.upserts = append(f.upserts, indexedEntry{entityType, entityID, title})
	return nil
}

func (f *fakeIndexer) Delete(ctx context.Context, tx pgx.Tx, entityType search.EntityType, entityID uuid.UUID) error {
	return nil
}

// fakeAuthRepo keeps attempts in memory and backs the rate limiter with
// them, so recorded failures count against subsequent requests exactly like
// the real table does.
type fakeAuthRepo struct {
	attempts []auth.AuthAttempt
	accounts []auth.OAuthAccount
}

func (r *fakeAuthRepo) RecordAttempt(ctx context.Context, attempt *auth.AuthAttempt) error {
	attempt.ID = uuid.New()
	attempt.CreatedAt = time.Now()
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeAuthRepo) RecordAttemptTx(ctx context.Context, tx pgx.Tx, attempt *auth.AuthAttempt) error {
	return r.RecordAttempt(ctx, attempt)
}

func (r *fakeAuthRepo) CountAttemptsByEmail(ctx context.Context, action auth.AuthAction, emailHash string, since time.Time) (int, error) {
	count := 0
	for _, a := range r.attempts {
		if a.Action == action && a.EmailHash != nil && *a.EmailHash == emailHash && !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAuthRepo) CountAttemptsByIP(ctx context.Context, action auth.AuthAction, ip string, since time.Time) (int, error) {
	count := 0
	for _, a := range r.attempts {
		if a.Action == action && a.IPAddress == ip && !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAuthRepo) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeAuthRepo) GetOAuthAccount(ctx context.Context, provider auth.OAuthProvider, providerAccountID string) (*auth.OAuthAccount, error) {
	for i := range r.accounts {
		if r.accounts[i].Provider == provider && r.accounts[i].ProviderAccountID == providerAccountID {
			return &r.accounts[i], nil
		}
	}
	return nil, nil
}

func (r *fakeAuthRepo) LinkAccount(ctx context.Context, account *auth.OAuthAccount) error {
	account.ID = uuid.New()
	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *fakeAuthRepo) LinkAccountTx(ctx context.Context, tx pgx.Tx, account *auth.OAuthAccount) error {
	return r.LinkAccount(ctx, account)
}

func (r *fakeAuthRepo) GetOAuthAccountsByUser(ctx context.Context, userID uuid.UUID) ([]auth.OAuthAccount, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users   map[string]*user.User
	stamped []uuid.UUID
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*user.User{}}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	u.ID = uuid.New()
	r.users[u.Email] = u
	return u, nil
}

func (r *fakeUserRepo) CreateTx(ctx context.Context, tx pgx.Tx, u *user.User) (*user.User, error) {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) UpdateTx(ctx context.Context, tx pgx.Tx, u *user.User) error { return nil }

func (r *fakeUserRepo) StampLastLogin(ctx context.Context, id uuid.UUID) error {
	r.stamped = append(r.stamped, id)
	return nil
}

func (r *fakeUserRepo) StampLastLoginTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	return r.StampLastLogin(ctx, id)
}

func (r *fakeUserRepo) List(ctx context.Context, filter *user.ListFilter) ([]user.User, error) {
	return nil, nil
}

type fakeProvider struct {
	user *github.User
	err  error
}

func (p *fakeProvider) AuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*github.User, error) {
	return p.user, p.err
}

func newTestService(authRepo *fakeAuthRepo, userRepo *fakeUserRepo, provider *fakeProvider) auth.Service {
	return newTestServiceIndexed(authRepo, userRepo, provider, &fakeIndexer{})
}

func newTestServiceIndexed(authRepo *fakeAuthRepo, userRepo *fakeUserRepo, provider *fakeProvider, indexer *fakeIndexer) auth.Service {
	if provider == nil {
		provider = &fakeProvider{err: errors.New("not configured")}
	}
	return NewAuthService(
		fakeDB{},
		authRepo,
		userRepo,
		auth.NewRateLimiter(authRepo),
		security.NewTokenManager("test-secret", time.Hour),
		provider,
		indexer,
	)
}

func hashedPassword(t *testing.T, password string) *string {
	t.Helper()
	h, err := security.HashPassword(password)
	require.NoError(t, err)
	return &h
}

func TestSignup_DuplicateEmailIsGeneric(t *testing.T) {
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo(&user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"})
	svc := newTestService(authRepo, userRepo, nil)

	_, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "Sup3rSecure1",
	}, "1.2.3.4")

	assert.ErrorIs(t, err, auth.ErrSignupFailed)

	// The generic response still leaves a precise audit row behind.
	require.Len(t, authRepo.attempts, 1)
	attempt := authRepo.attempts[0]
	assert.Equal(t, auth.ActionSignup, attempt.Action)
	assert.False(t, attempt.Success)
	require.NotNil(t, attempt.Reason)
	assert.Equal(t, auth.ReasonDuplicateEmail, *attempt.Reason)
	require.NotNil(t, attempt.EmailHash)
	assert.Equal(t, security.HashEmail("alice@example.com"), *attempt.EmailHash)
}

func TestSignup_RateLimitBoundary(t *testing.T) {
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo(&user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"})
	svc := newTestService(authRepo, userRepo, nil)

	req := &auth.SignupRequest{Email: "alice@example.com", Password: "Sup3rSecure1"}

	// Five failures fill the window; the fifth request itself still gets
	// the real (generic) signup error.
	for i := 0; i < 5; i++ {
		_, err := svc.Signup(context.Background(), req, "1.2.3.4")
		assert.ErrorIs(t, err, auth.ErrSignupFailed)
	}

	_, err := svc.Signup(context.Background(), req, "1.2.3.4")
	var rateErr *auth.RateLimitError
	require.ErrorAs(t, err, &rateErr)

	// Rate-limited attempts are appended too.
	assert.Len(t, authRepo.attempts, 6)
	last := authRepo.attempts[5]
	require.NotNil(t, last.Reason)
	assert.Equal(t, auth.ReasonRateLimited, *last.Reason)
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	oauthOnly := &user.User{ID: uuid.New(), Email: "github@example.com", Username: "octocat"}
	withPassword := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: hashedPassword(t, "correct-horse"),
	}

	svc := newTestService(&fakeAuthRepo{}, newFakeUserRepo(oauthOnly, withPassword), nil)

	cases := []struct {
		name  string
		email string
	}{
		{"unknown user", "nobody@example.com"},
		{"oauth-only account", "github@example.com"},
		{"wrong password", "alice@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &auth.LoginRequest{
				Email:    tc.email,
				Password: "battery-staple",
			}, "1.2.3.4")
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestLogin_AttemptsAlwaysRecorded(t *testing.T) {
	authRepo := &fakeAuthRepo{}
	svc := newTestService(authRepo, newFakeUserRepo(), nil)

	req := &auth.LoginRequest{Email: "alice@example.com", Password: "wrong"}

	for i := 0; i < 10; i++ {
		_, err := svc.Login(context.Background(), req, "1.2.3.4")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	_, err := svc.Login(context.Background(), req, "1.2.3.4")
	var rateErr *auth.RateLimitError
	require.ErrorAs(t, err, &rateErr)

	// Ten failures plus the rate-limited one: eleven rows.
	require.Len(t, authRepo.attempts, 11)
	for _, a := range authRepo.attempts {
		assert.False(t, a.Success)
	}
	assert.Equal(t, auth.ReasonRateLimited, *authRepo.attempts[10].Reason)
}

func TestGithubLoginURL_StateRoundTrip(t *testing.T) {
	svc := newTestService(&fakeAuthRepo{}, newFakeUserRepo(), &fakeProvider{})

	authURL, signed, err := svc.GithubLoginURL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, authURL, "state=")
	assert.NotEmpty(t, signed)
}

func TestGithubCallback_MissingParams(t *testing.T) {
	svc := newTestService(&fakeAuthRepo{}, newFakeUserRepo(), &fakeProvider{})

	_, err := svc.GithubCallback(context.Background(), "", "state", "signed", "1.2.3.4")
	assert.ErrorIs(t, err, auth.ErrMissingCallbackParam)

	_, err = svc.GithubCallback(context.Background(), "code", "", "signed", "1.2.3.4")
	assert.ErrorIs(t, err, auth.ErrMissingCallbackParam)

	_, err = svc.GithubCallback(context.Background(), "code", "state", "", "1.2.3.4")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestGithubCallback_TamperedState(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour)
	_, signed, err := tokens.IssueState()
	require.NoError(t, err)

	svc := newTestService(&fakeAuthRepo{}, newFakeUserRepo(), &fakeProvider{})

	_, err = svc.GithubCallback(context.Background(), "code", "attacker-state", signed, "1.2.3.4")
	assert.ErrorIs(t, err, auth.ErrInvalidState)
}

func TestGithubCallback_ProviderFailure(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", time.Hour)
	state, signed, err := tokens.IssueState()
	require.NoError(t, err)

	svc := newTestService(&fakeAuthRepo{}, newFakeUserRepo(), &fakeProvider{err: errors.New("502 from github")})

	_, err = svc.GithubCallback(context.Background(), "code", state, signed, "1.2.3.4")
	assert.ErrorIs(t, err, auth.ErrProviderUnavailable)
}

func TestSignup_Success(t *testing.T) {
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo()
	indexer := &fakeIndexer{}
	svc := newTestServiceIndexed(authRepo, userRepo, nil, indexer)

	res, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "Sup3rSecure1",
	}, "1.2.3.4")
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "alice@example.com", res.Email)
	assert.Equal(t, "alice", res.Username)

	// The token is a real session for the new user.
	got, err := security.NewTokenManager("test-secret", time.Hour).VerifySession(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, got.String())

	require.Len(t, authRepo.attempts, 1)
	attempt := authRepo.attempts[0]
	assert.Equal(t, auth.ActionSignup, attempt.Action)
	assert.True(t, attempt.Success)
	require.NotNil(t, attempt.EmailHash)
	assert.Equal(t, security.HashEmail("alice@example.com"), *attempt.EmailHash)

	require.Len(t, indexer.upserts, 1)
	assert.Equal(t, search.TypeUser, indexer.upserts[0].entityType)
	assert.Equal(t, "alice", indexer.upserts[0].title)
}

func TestLogin_SuccessStampsLastLogin(t *testing.T) {
	u := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: hashedPassword(t, "correct-horse"),
	}
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo(u)
	svc := newTestService(authRepo, userRepo, nil)

	res, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	}, "1.2.3.4")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, u.ID.String(), res.UserID)
	assert.Equal(t, []uuid.UUID{u.ID}, userRepo.stamped)

	require.Len(t, authRepo.attempts, 1)
	assert.Equal(t, auth.ActionLogin, authRepo.attempts[0].Action)
	assert.True(t, authRepo.attempts[0].Success)
}

func TestGithubCallback_ExistingLinkSignsIn(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "octo@example.com", Username: "octo"}
	authRepo := &fakeAuthRepo{accounts: []auth.OAuthAccount{{
		UserID:            u.ID,
		Provider:          auth.ProviderGitHub,
		ProviderAccountID: "42",
	}}}
	userRepo := newFakeUserRepo(u)
	svc := newTestService(authRepo, userRepo, &fakeProvider{user: &github.User{
		ID:        42,
		Login:     "octocat",
		AvatarURL: "https://avatars.example/42",
	}})

	state, signed, err := security.NewTokenManager("test-secret", time.Hour).IssueState()
	require.NoError(t, err)

	res, err := svc.GithubCallback(context.Background(), "code", state, signed, "1.2.3.4")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, u.ID.String(), res.UserID)
	assert.Equal(t, []uuid.UUID{u.ID}, userRepo.stamped)
	require.Len(t, authRepo.attempts, 1)
	assert.True(t, authRepo.attempts[0].Success)
}

func TestGithubCallback_LinksAccountByEmail(t *testing.T) {
	u := &user.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: hashedPassword(t, "correct-horse"),
	}
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo(u)
	svc := newTestService(authRepo, userRepo, &fakeProvider{user: &github.User{
		ID:    42,
		Login: "alice-gh",
		Email: "Alice@Example.com",
	}})

	state, signed, err := security.NewTokenManager("test-secret", time.Hour).IssueState()
	require.NoError(t, err)

	res, err := svc.GithubCallback(context.Background(), "code", state, signed, "1.2.3.4")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, u.ID.String(), res.UserID)

	require.Len(t, authRepo.accounts, 1)
	assert.Equal(t, u.ID, authRepo.accounts[0].UserID)
	assert.Equal(t, "42", authRepo.accounts[0].ProviderAccountID)
}

func TestGithubCallback_CreatesNewUser(t *testing.T) {
	authRepo := &fakeAuthRepo{}
	userRepo := newFakeUserRepo()
	indexer := &fakeIndexer{}
	svc := newTestServiceIndexed(authRepo, userRepo, &fakeProvider{user: &github.User{
		ID:        7,
		Login:     "newbie",
		Email:     "Newcomer@Example.com",
		Name:      "New Person",
		AvatarURL: "https://avatars.example/7",
	}}, indexer)

	state, signed, err := security.NewTokenManager("test-secret", time.Hour).IssueState()
	require.NoError(t, err)

	res, err := svc.GithubCallback(context.Background(), "code", state, signed, "1.2.3.4")
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "newcomer@example.com", res.Email)
	assert.Equal(t, "newcomer", res.Username)

	require.Len(t, authRepo.accounts, 1)
	assert.Equal(t, "7", authRepo.accounts[0].ProviderAccountID)

	require.Len(t, authRepo.attempts, 1)
	assert.Equal(t, auth.ActionSignup, authRepo.attempts[0].Action)
	assert.True(t, authRepo.attempts[0].Success)

	require.Len(t, indexer.upserts, 1)
	assert.Equal(t, search.TypeUser, indexer.upserts[0].entityType)
	assert.Equal(t, "newcomer", indexer.upserts[0].title)
}
