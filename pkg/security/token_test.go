package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SessionRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.IssueSession(userID)
	require.NoError(t, err)

	got, err := m.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenManager_SessionTokensAreUnique(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	t1, err := m.IssueSession(userID)
	require.NoError(t, err)
	t2, err := m.IssueSession(userID)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

func TestTokenManager_SessionExpiresAfterMaxAge(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.IssueSession(uuid.New())
	require.NoError(t, err)

	_, err = m.VerifySession(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	m1 := NewTokenManager("secret-one", time.Hour)
	m2 := NewTokenManager("secret-two", time.Hour)

	token, err := m1.IssueSession(uuid.New())
	require.NoError(t, err)

	_, err = m2.VerifySession(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.VerifySession("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifySession("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_StateRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	state, signed, err := m.IssueState()
	require.NoError(t, err)
	assert.Len(t, state, 32)

	assert.NoError(t, m.VerifyState(signed, state))
	assert.ErrorIs(t, m.VerifyState(signed, "tampered"), ErrInvalidState)
	assert.ErrorIs(t, m.VerifyState("junk", state), ErrInvalidState)
}

func TestTokenManager_StateSignedByOther(t *testing.T) {
	m1 := NewTokenManager("secret-one", time.Hour)
	m2 := NewTokenManager("secret-two", time.Hour)

	state, signed, err := m1.IssueState()
	require.NoError(t, err)

	assert.ErrorIs(t, m2.VerifyState(signed, state), ErrInvalidState)
}
