package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=2,p=1$"))
	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret"))
	assert.True(t, VerifyPassword(h2, "secret"))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=bad$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=2,p=1$c2FsdA$!!!",
	}
	for _, c := range cases {
		assert.False(t, VerifyPassword(c, "secret"), "hash %q should not verify", c)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM  "))
	assert.Equal(t, "a@b.c", NormalizeEmail("a@b.c"))
}

func TestHashEmail_CaseInsensitive(t *testing.T) {
	h1 := HashEmail("User@Example.com")
	h2 := HashEmail(" user@example.com ")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashEmail("other@example.com"))
}

func TestConstantTimeCompare(t *testing.T) {
	assert.True(t, ConstantTimeCompare("abc", "abc"))
	assert.False(t, ConstantTimeCompare("abc", "abd"))
	assert.False(t, ConstantTimeCompare("abc", "abcd"))
	assert.True(t, ConstantTimeCompare("", ""))
}
