package scrape

import (
	"net/url"
	"regexp"
	"strings"
)

// Image URL post-processing shared by the album-cover path and the
// image-list path. Applied uniformly regardless of which strategy found
// the URL.

var (
	imageExtRegex = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp)$`)

	placeholderRegex = regexp.MustCompile(`(?i)(logo|icon|avatar|loading|placeholder|spinner)`)

	// <base>_square.jpg, <base>_thumb.jpg etc: named low-resolution variants.
	namedVariantRegex = regexp.MustCompile(`(?i)_(square|thumb|small|medium|big)(\.(?:jpe?g|png|gif|webp))$`)

	// <numeric id>_<variant>.jpg: CDN thumbnail naming, upgrade by dropping the suffix.
	idVariantRegex = regexp.MustCompile(`(?i)^(\d+)_[a-z0-9]+(\.(?:jpe?g|png|gif|webp))$`)

	// Filenames that *are* a variant name cannot be upgraded, only discarded.
	bareVariantRegex = regexp.MustCompile(`(?i)^(square|thumb|small|medium|big)\.(?:jpe?g|png|gif|webp)$`)
)

// ResolveAbsolute turns a discovered URL into an absolute one. Protocol-relative
// URLs get https; relative paths resolve against base. Returns "" for
// unusable input (empty, data:, javascript:, unparsable).
func ResolveAbsolute(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if !u.IsAbs() {
		if base == nil {
			return ""
		}
		u = base.ResolveReference(u)
	}
	return u.String()
}

// UpgradeResolution rewrites known thumbnail suffix patterns to the
// full-resolution variant. Idempotent: upgrading an already-upgraded URL is
// a no-op.
func UpgradeResolution(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	dir, file := splitPath(u.Path)
	if bareVariantRegex.MatchString(file) {
		return raw // cannot upgrade, caller discards via IsLowResVariant
	}
	file = namedVariantRegex.ReplaceAllString(file, "$2")
	file = idVariantRegex.ReplaceAllString(file, "$1$2")
	u.Path = dir + file
	return u.String()
}

// IsLowResVariant reports whether the filename is exactly a known
// low-resolution variant name (square.jpg, thumb.jpg, ...), which cannot be
// upgraded and is discarded outright.
func IsLowResVariant(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	_, file := splitPath(u.Path)
	return bareVariantRegex.MatchString(file)
}

// IsPlaceholder reports whether the URL matches known non-content patterns
// (logos, spinners, avatars, ...).
func IsPlaceholder(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return placeholderRegex.MatchString(raw)
	}
	return placeholderRegex.MatchString(u.Path)
}

// HasImageExtension reports whether the URL path ends in a known raster
// extension.
func HasImageExtension(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return imageExtRegex.MatchString(u.Path)
}

func splitPath(p string) (dir, file string) {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return "", p
	}
	return p[:idx+1], p[idx+1:]
}

// cleanImageURL runs the full post-processing pipeline on a raw image URL
// candidate: resolve, placeholder filter, resolution upgrade, extension
// gate. Returns "" when the candidate should be discarded.
func cleanImageURL(raw string, base *url.URL) string {
	abs := ResolveAbsolute(raw, base)
	if abs == "" {
		return ""
	}
	if IsPlaceholder(abs) || IsLowResVariant(abs) {
		return ""
	}
	abs = UpgradeResolution(abs)
	if !HasImageExtension(abs) {
		return ""
	}
	return abs
}
