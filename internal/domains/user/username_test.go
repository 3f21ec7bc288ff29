package user

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "alice", "alice", false},
		{"uppercase", "Alice", "alice", false},
		{"dots and spaces", "John. Doe", "john-doe", false},
		{"accents", "Éléonore", "eleonore", false},
		{"short padded", "ab", "abx", false},
		{"single char padded", "a", "axx", false},
		{"empty falls back", "!!!", "user", false},
		{"hyphen runs collapse", "a--b", "a-b", false},
		{"trims hyphens", "-alice-", "alice", false},
		{"truncated", strings.Repeat("a", 40), strings.Repeat("a", 32), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeUsername(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func takenSet(names ...string) ExistsFunc {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
		_, ok := set[username]
		return ok, nil
	}
}

func TestGenerateUniqueUsername_NoCollision(t *testing.T) {
	got, err := GenerateUniqueUsername(context.Background(), "alice@example.com", uuid.Nil, takenSet())
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestGenerateUniqueUsername_SuffixesOnCollision(t *testing.T) {
	got, err := GenerateUniqueUsername(context.Background(), "alice@example.com", uuid.Nil, takenSet("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice-1", got)

	got, err = GenerateUniqueUsername(context.Background(), "alice@example.com", uuid.Nil, takenSet("alice", "alice-1", "alice-2"))
	require.NoError(t, err)
	assert.Equal(t, "alice-3", got)
}

func TestGenerateUniqueUsername_ExclusionMakesRegenerationStable(t *testing.T) {
	ownerID := uuid.New()
	taken := map[string]uuid.UUID{"alice": ownerID}
	exists := func(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
		owner, ok := taken[username]
		if !ok {
			return false, nil
		}
		return owner != excludeID, nil
	}

	// Regenerating for the owner skips their own row, so the default
	// username is reproduced exactly.
	got, err := GenerateUniqueUsername(context.Background(), "alice@example.com", ownerID, exists)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	// Anyone else collides and gets a suffix.
	got, err = GenerateUniqueUsername(context.Background(), "alice@other.com", uuid.Nil, exists)
	require.NoError(t, err)
	assert.Equal(t, "alice-1", got)
}

func TestGenerateUniqueUsername_LongBaseTrimmedForSuffix(t *testing.T) {
	base := strings.Repeat("a", 32)
	got, err := GenerateUniqueUsername(context.Background(), base+"@example.com", uuid.Nil, takenSet(base))
	require.NoError(t, err)
	assert.Len(t, got, 32)
	assert.True(t, strings.HasSuffix(got, "-1"))
}

func TestGenerateUniqueUsername_RandomFallbackAfterNumericAttempts(t *testing.T) {
	// Everything that looks numeric-suffixed is taken; allocator must still
	// terminate with a random suffix.
	exists := func(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
		if username == "bob" {
			return true, nil
		}
		if strings.HasPrefix(username, "bob-") && len(username) <= len("bob-50") {
			return true, nil
		}
		return false, nil
	}

	got, err := GenerateUniqueUsername(context.Background(), "bob@example.com", uuid.Nil, exists)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "bob-"))
	assert.Len(t, got, len("bob-")+8)
}

func TestGenerateUniqueUsername_GarbageLocalPart(t *testing.T) {
	got, err := GenerateUniqueUsername(context.Background(), "日本語@example.com", uuid.Nil, takenSet())
	require.NoError(t, err)
	assert.Equal(t, "user", got)
}
