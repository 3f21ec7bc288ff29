package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugAttempts bounds collision resolution; past it a random suffix is
// tried so a pathological cluster of collisions cannot spin forever.
const maxSlugAttempts = 50

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugMultiHyphen  = regexp.MustCompile(`-+`)
)

// GenerateSlug converts arbitrary text into a URL-safe slug:
// "Café Machine Learning!" → "cafe-machine-learning".
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(input)
	lower := strings.ToLower(ascii)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugMultiHyphen.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// UniqueSlug resolves slug collisions with -1, -2, ... suffixes on base,
// falling back to a short random suffix once the numeric space is exhausted.
// taken reports whether a candidate is already in use.
func UniqueSlug(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for suffix := 1; suffix <= maxSlugAttempts; suffix++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}

	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%s", base, hex.EncodeToString(buf))
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}

	return "", errors.New("could not allocate a unique slug")
}

// RemoveDiacritics decomposes accented characters and drops the combining
// marks, so "Éléonore" becomes "Eleonore". Characters with no ASCII
// decomposition are left as-is and filtered later by the slug regex.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return result
}
