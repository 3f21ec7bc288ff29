package article

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenSet(slugs ...string) SlugExistsFunc {
	set := map[string]bool{}
	for _, s := range slugs {
		set[s] = true
	}
	return func(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
		return set[slug], nil
	}
}

func TestGenerateUniqueSlug_Basic(t *testing.T) {
	slug, err := GenerateUniqueSlug(context.Background(), "Intro to LLMs: Part 1!", uuid.Nil, takenSet())
	require.NoError(t, err)
	assert.Equal(t, "intro-to-llms-part-1", slug)
}

func TestGenerateUniqueSlug_Collisions(t *testing.T) {
	exists := takenSet("my-post", "my-post-1")

	slug, err := GenerateUniqueSlug(context.Background(), "My Post", uuid.Nil, exists)
	require.NoError(t, err)
	assert.Equal(t, "my-post-2", slug)
}

func TestGenerateUniqueSlug_EmptyTitle(t *testing.T) {
	slug, err := GenerateUniqueSlug(context.Background(), "???", uuid.Nil, takenSet())
	require.NoError(t, err)
	assert.Equal(t, "untitled", slug)
}

func TestGenerateUniqueSlug_RandomFallback(t *testing.T) {
	// Any candidate short enough to be numeric-suffixed is taken.
	exists := func(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
		return len(slug) <= len("post-50"), nil
	}

	slug, err := GenerateUniqueSlug(context.Background(), "Post", uuid.Nil, exists)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(slug, "post-"))
	assert.Len(t, strings.TrimPrefix(slug, "post-"), 8)
}
