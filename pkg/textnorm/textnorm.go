// Package textnorm normalizes scraped titles into display names and slugs.
package textnorm

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dashRunRegex       = regexp.MustCompile(`-{2,}`)
	leadingNoiseRegex  = regexp.MustCompile(`^[\d\s\p{P}\p{S}]+`)
	parentheticalRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	nonSlugRegex       = regexp.MustCompile(`[^a-z0-9-]`)
)

var lowerCaser = cases.Lower(language.Und)

// CleanTitle strips CJK ideographs, collapses whitespace and dash runs, and
// trims leading/trailing spaces and dashes. Empty input yields "".
func CleanTitle(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.Is(unicode.Han, r) {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	s = dashRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, " -")
}

// AlbumName derives a display name for an album. Beyond CleanTitle it strips
// a leading run of digits/symbols/whitespace and any trailing parenthetical.
// When nothing survives, a placeholder is generated from seed (typically the
// album source URL) so re-runs produce the same name.
func AlbumName(raw, seed string) string {
	s := CleanTitle(raw)
	s = leadingNoiseRegex.ReplaceAllString(s, "")
	s = parentheticalRegex.ReplaceAllString(s, "")
	s = strings.Trim(s, " -")
	if s == "" {
		return "Untitled Album " + shortHash(seed)
	}
	return s
}

// ImageName derives a display name for an image, falling back to "Untitled".
func ImageName(raw string) string {
	s := CleanTitle(raw)
	if s == "" {
		return "Untitled"
	}
	return s
}

// Slugify lowercases (Unicode-aware), folds accents, replaces spaces with
// dashes, and strips everything outside [a-z0-9-]. The result matches
// ^[a-z0-9]+(-[a-z0-9]+)*$ or is empty.
func Slugify(raw string) string {
	s := lowerCaser.String(removeAccents(raw))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugRegex.ReplaceAllString(s, "")
	s = dashRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// shortHash returns a stable 6-hex-digit digest of s.
func shortHash(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%06x", h.Sum32()&0xffffff)
}
