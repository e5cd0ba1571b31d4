package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugStrategy decides how a taken slug is disambiguated.
type SlugStrategy int

const (
	// SequentialSuffix tries base, base-1, base-2, ...
	SequentialSuffix SlugStrategy = iota
	// RandomSuffix tries base, then base-N with N drawn from [1, 999].
	RandomSuffix
)

const (
	MaxSlugProbes   = 1000
	MaxRandomProbes = 10
)

var (
	ErrEmptySlug     = errors.New("slug is empty after normalization")
	ErrSlugExhausted = errors.New("no free slug found")
)

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify lower-cases s, strips diacritics and keeps ASCII letters and
// digits, joining every other run of characters with a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// UniqueSlug normalizes candidate and returns the first variant for which
// exists reports false.
func UniqueSlug(ctx context.Context, candidate string, exists SlugExistsFunc, strategy SlugStrategy) (string, error) {
	base := Slugify(candidate)
	if base == "" {
		return "", ErrEmptySlug
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	if strategy == RandomSuffix {
		for range MaxRandomProbes {
			slug := fmt.Sprintf("%s-%d", base, rand.IntN(999)+1)
			taken, err := exists(ctx, slug)
			if err != nil {
				return "", fmt.Errorf("check slug %q: %w", slug, err)
			}
			if !taken {
				return slug, nil
			}
		}
	}

	for i := 1; i <= MaxSlugProbes; i++ {
		slug := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w for %q", ErrSlugExhausted, base)
}
