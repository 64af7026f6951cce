package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// fallbackSlug is used when a name has no characters that survive slugging.
const fallbackSlug = "product"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9` + spaceClass + `-]`)

// SlugChecker reports whether a slug is already taken. It must read live
// state so that writes made earlier in the same batch are observed.
type SlugChecker func(ctx context.Context, slug string) (bool, error)

func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MintSlug derives a slug from name and tries base, base-1, base-2, ...
// until exists reports the candidate free.
func MintSlug(ctx context.Context, name string, exists SlugChecker) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
