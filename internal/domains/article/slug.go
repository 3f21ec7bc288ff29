package article

import (
	"context"

	"github.com/google/uuid"

	"aic-hub-backend/internal/shared/utils"
)

// SlugExistsFunc reports whether a slug is taken by an article other than
// excludeID.
type SlugExistsFunc func(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

// GenerateUniqueSlug derives a URL slug from the title, resolving
// collisions like the username allocator does. excludeID (may be uuid.Nil)
// ignores the article's own row so re-slugging on title change is stable.
func GenerateUniqueSlug(ctx context.Context, title string, excludeID uuid.UUID, exists SlugExistsFunc) (string, error) {
	base := utils.GenerateSlug(title)
	if base == "" {
		base = "untitled"
	}

	return utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return exists(ctx, candidate, excludeID)
	})
}
