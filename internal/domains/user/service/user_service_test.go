package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aic-hub-backend/internal/domains/user"
)

// fakeUserRepo implements user.Repository in memory. Tx-scoped methods are
// wired to the plain ones; tests that reach the transaction path are not run
// against it.
type fakeUserRepo struct {
	byID       map[uuid.UUID]*user.User
	byUsername map[string]uuid.UUID
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{
		byID:       map[uuid.UUID]*user.User{},
		byUsername: map[string]uuid.UUID{},
	}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byUsername[u.Username] = u.ID
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	u.ID = uuid.New()
	r.byID[u.ID] = u
	r.byUsername[u.Username] = u.ID
	return u, nil
}

func (r *fakeUserRepo) CreateTx(ctx context.Context, tx pgx.Tx, u *user.User) (*user.User, error) {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.byID[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if id, ok := r.byUsername[username]; ok {
		return r.byID[id], nil
	}
	return nil, nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return false, nil
	}
	return id != excludeID, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) UpdateTx(ctx context.Context, tx pgx.Tx, u *user.User) error { return nil }

func (r *fakeUserRepo) StampLastLogin(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) StampLastLoginTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter *user.ListFilter) ([]user.User, error) {
	var out []user.User
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func TestGetMe_UsernameEditableWhileGenerated(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	profile, err := svc.GetMe(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, profile.UsernameEditable)
	assert.Equal(t, "alice", profile.Username)
}

func TestGetMe_UsernameLockedAfterCustomChoice(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "wonderland"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	profile, err := svc.GetMe(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, profile.UsernameEditable)
}

func TestGetMe_NotFound(t *testing.T) {
	svc := NewUserService(nil, newFakeUserRepo(), nil, nil)

	_, err := svc.GetMe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateMe_UsernameChangeRejectedWhenLocked(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "wonderland"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	_, err := svc.UpdateMe(context.Background(), u.ID, &user.UpdateMeRequest{
		Username: strptr("newname"),
	})
	assert.ErrorIs(t, err, user.ErrUsernameChangeNotAllowed)
}

func TestUpdateMe_UsernameTaken(t *testing.T) {
	alice := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	bob := &user.User{ID: uuid.New(), Email: "bob@example.com", Username: "bob"}
	svc := NewUserService(nil, newFakeUserRepo(alice, bob), nil, nil)

	_, err := svc.UpdateMe(context.Background(), alice.ID, &user.UpdateMeRequest{
		Username: strptr("bob"),
	})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUpdateMe_InvalidUsername(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	// Truncation to the maximum length lands on a trailing hyphen, which
	// normalization cannot repair.
	_, err := svc.UpdateMe(context.Background(), u.ID, &user.UpdateMeRequest{
		Username: strptr(strings.Repeat("a", 31) + "-bcd"),
	})
	assert.ErrorIs(t, err, user.ErrInvalidUsername)
}

func TestUpdateMe_InvalidExpertiseTag(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	_, err := svc.UpdateMe(context.Background(), u.ID, &user.UpdateMeRequest{
		ExpertiseTags: &[]string{"LLMs", "Blockchain"},
	})
	assert.ErrorIs(t, err, user.ErrInvalidExpertiseTag)
}

func TestUpdateMe_NoChangesIsNoop(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	profile, err := svc.UpdateMe(context.Background(), u.ID, &user.UpdateMeRequest{})
	require.NoError(t, err)
	assert.Nil(t, profile.UpdatedAt)
}

func TestCheckUsername(t *testing.T) {
	alice := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice"}
	svc := NewUserService(nil, newFakeUserRepo(alice), nil, nil)

	// Own username reads as available (excluded from the collision check).
	res, err := svc.CheckUsername(context.Background(), alice.ID, "alice")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = svc.CheckUsername(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = svc.CheckUsername(context.Background(), alice.ID, "New Name")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, "new-name", res.Normalized)
}

func TestGetByUsername_PublicProfileHidesEmail(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "alice@example.com", Username: "alice", Bio: strptr("hi")}
	svc := NewUserService(nil, newFakeUserRepo(u), nil, nil)

	profile, err := svc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "hi", *profile.Bio)
}

func TestGetByUsername_InvalidNameIsNotFound(t *testing.T) {
	svc := NewUserService(nil, newFakeUserRepo(), nil, nil)

	_, err := svc.GetByUsername(context.Background(), "???")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
