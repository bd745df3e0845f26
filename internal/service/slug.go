package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength   = 80
	maxSlugAttempts = 20
)

// Slugify turns text into a lowercase ASCII slug.
// Accents are folded and runs of other characters become one hyphen.
// Transforme un texte en slug ASCII minuscule.
func Slugify(text string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			dash := pendingDash && b.Len() > 0
			if b.Len()+1+boolToInt(dash) > maxSlugLength {
				return strings.Trim(b.String(), "-_")
			}
			if dash {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return strings.Trim(b.String(), "-_")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// uniqueSlug returns base or base-N, whichever is free first.
// Retourne base ou base-N, le premier libre.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
