// Package slug turns titles into URL path tokens.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxBaseLength bounds the slug derived from a title, in runes.
	MaxBaseLength = 80
	// MaxSuffixedBaseLength bounds the base once a "-N" counter is appended.
	MaxSuffixedBaseLength = 70
)

// Make converts s to a lowercase slug that keeps letters of any script.
func Make(s string) string {
	return build(norm.NFKC.String(s), false)
}

// MakeASCII is like Make but drops everything outside ASCII after
// decomposing accented letters, so "Café" becomes "cafe".
func MakeASCII(s string) string {
	return build(norm.NFKD.String(s), true)
}

func build(s string, asciiOnly bool) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(s) {
		if asciiOnly && r > unicode.MaxASCII {
			continue
		}
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}

	return strings.Trim(b.String(), "-_")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base, or base truncated to MaxSuffixedBaseLength and
// suffixed with the first free "-N" counter.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	short := Truncate(base, MaxSuffixedBaseLength)

	for counter := 1; ; counter++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", short, counter)
	}
}
