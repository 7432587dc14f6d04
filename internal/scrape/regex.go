package scrape

import (
	"regexp"
	"strconv"
)

// Regex strategies operate on raw HTML for pages whose markup is too
// malformed or minified for the DOM parser to yield anything.

var tagRegex = regexp.MustCompile(`<[^>]+>`)

// Image URL patterns, combined: every pattern runs and the union is
// deduplicated by resolved URL.
var imageURLPatterns = []*regexp.Regexp{
	// direct CDN links, absolute or protocol-relative
	regexp.MustCompile(`(?i)(?:https?:)?//[^\s"'<>()]+?\.(?:jpe?g|png|gif|webp)`),
	// lazy-load attribute variants
	regexp.MustCompile(`(?i)data-(?:src|original|lazy-src)\s*=\s*["']([^"']+)["']`),
	// CSS background images
	regexp.MustCompile(`(?i)background-image\s*:\s*url\(\s*["']?([^"')]+?)["']?\s*\)`),
	// plain img src
	regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*["']([^"']+)["']`),
}

// albumAnchorRegex matches anchors pointing at numeric album IDs, optionally
// followed by a count span.
func albumAnchorRegex(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<a[^>]+href\s*=\s*["']([^"']*` +
		regexp.QuoteMeta(marker) +
		`\d+[^"']*)["'][^>]*>(.*?)</a>(?:\s*<span[^>]*>\s*(\d+)\s*</span>)?`)
}

func (e *Extractor) albumsFromRegex(doc string) []Album {
	matches := e.anchorRe.FindAllStringSubmatch(doc, -1)
	var albums []Album
	for _, m := range matches {
		title := tagRegex.ReplaceAllString(m[2], " ")
		count := 0
		if m[3] != "" {
			count, _ = strconv.Atoi(m[3])
		}
		a, ok := e.newAlbum(title, m[1], "", count)
		if !ok {
			continue
		}
		albums = append(albums, a)
	}
	return dedupeAlbums(albums)
}

func (e *Extractor) imagesFromRegex(doc string) []Image {
	var images []Image
	for _, pat := range imageURLPatterns {
		for _, m := range pat.FindAllStringSubmatch(doc, -1) {
			raw := m[0]
			if len(m) > 1 && m[1] != "" {
				raw = m[1]
			}
			if img, ok := e.newImage(raw, "", "", 0, 0); ok {
				images = append(images, img)
			}
		}
	}
	return dedupeImages(images)
}
