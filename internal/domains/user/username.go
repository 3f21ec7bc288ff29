package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"aic-hub-backend/internal/shared/utils"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 32

	// After this many numeric suffixes the allocator switches to a random
	// suffix so a pathological cluster of collisions cannot spin forever.
	maxNumericAttempts = 50
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,30}[a-z0-9]$`)

var (
	invalidUsernameChars = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphen          = regexp.MustCompile(`-+`)
)

// basicSlugify folds a raw value into username charset: unicode is
// decomposed to ASCII, everything outside [a-z0-9-] becomes a hyphen, runs
// collapse, and the result is padded with 'x' up to the minimum length.
// An empty result falls back to "user".
func basicSlugify(value string) string {
	ascii := utils.RemoveDiacritics(value)
	lowered := strings.ToLower(ascii)
	sanitized := invalidUsernameChars.ReplaceAllString(lowered, "-")
	sanitized = multiHyphen.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		sanitized = "user"
	}
	if len(sanitized) < UsernameMinLength {
		sanitized = (sanitized + strings.Repeat("x", UsernameMinLength))[:UsernameMinLength]
	}
	if len(sanitized) > UsernameMaxLength {
		sanitized = sanitized[:UsernameMaxLength]
	}
	return sanitized
}

// NormalizeUsername slugifies the input and validates the result against the
// username pattern.
func NormalizeUsername(value string) (string, error) {
	candidate := basicSlugify(strings.TrimSpace(value))
	if !usernamePattern.MatchString(candidate) {
		return "", ErrInvalidUsername
	}
	return candidate, nil
}

// applySuffix appends "-<n>", trimming the base so the result stays within
// the maximum length.
func applySuffix(base string, suffix int) (string, error) {
	suffixStr := fmt.Sprintf("-%d", suffix)
	allowed := UsernameMaxLength - len(suffixStr)
	trimmed := strings.TrimRight(base[:min(allowed, len(base))], "-")
	if trimmed == "" {
		trimmed = base[:min(allowed, len(base))]
	}

	candidate := trimmed + suffixStr
	if len(candidate) < UsernameMinLength {
		candidate = (candidate + strings.Repeat("x", UsernameMinLength))[:UsernameMinLength]
	}
	if !usernamePattern.MatchString(candidate) {
		return "", ErrInvalidUsername
	}
	return candidate, nil
}

// ExistsFunc reports whether a username is taken by any user other than
// excludeID.
type ExistsFunc func(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)

// GenerateUniqueUsername derives a username from the email local part and
// resolves collisions with -1, -2, ... suffixes. Uniqueness is checked
// through exists; excludeID (may be uuid.Nil) ignores the user's own row so
// regeneration for an existing user is stable.
func GenerateUniqueUsername(ctx context.Context, email string, excludeID uuid.UUID, exists ExistsFunc) (string, error) {
	localPart := email
	if at := strings.Index(email, "@"); at >= 0 {
		localPart = email[:at]
	}

	base, err := NormalizeUsername(localPart)
	if err != nil {
		return "", err
	}

	candidate := base
	for suffix := 1; suffix <= maxNumericAttempts; suffix++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate, err = applySuffix(base, suffix)
		if err != nil {
			return "", err
		}
	}

	// Numeric space exhausted; fall back to random suffixes.
	for attempt := 0; attempt < 5; attempt++ {
		raw := make([]byte, 4)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("generate username suffix: %w", err)
		}
		candidate := base[:min(UsernameMaxLength-9, len(base))] + "-" + hex.EncodeToString(raw)
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not allocate a unique username for %s", localPart)
}
