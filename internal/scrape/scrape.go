// Package scrape extracts album and image descriptors from gallery host markup.
//
// Both extraction entry points run an ordered chain of strategies; the first
// strategy yielding a non-empty result wins. Individual malformed items are
// logged and skipped, never aborting the rest of the page.
package scrape

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/pixarr/pixarr/pkg/textnorm"
)

// Album describes one album discovered on a listing page. Ephemeral: it
// exists only between extraction and import.
type Album struct {
	Title          string
	SourceURL      string
	ImageCountHint int
	CoverURL       string
}

// Image describes one image discovered on an album detail page.
type Image struct {
	SourceURL string
	Title     string
	AltText   string
	Width     int
	Height    int
}

// Extractor runs the extraction strategy chains against raw HTML.
type Extractor struct {
	base     *url.URL
	marker   string // album path marker, e.g. "/albums/"
	anchorRe *regexp.Regexp
	log      *slog.Logger
}

// New creates an extractor for the gallery rooted at base.
func New(base *url.URL, albumPathMarker string, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		base:     base,
		marker:   albumPathMarker,
		anchorRe: albumAnchorRegex(albumPathMarker),
		log:      log,
	}
}

// Albums extracts album descriptors from a listing page. An empty result is
// not an error; the caller decides whether it is fatal.
func (e *Extractor) Albums(html []byte) []Album {
	strategies := []struct {
		name string
		fn   func(string) []Album
	}{
		{"state-json", e.albumsFromStateJSON},
		{"dom-container", e.albumsFromContainers},
		{"regex", e.albumsFromRegex},
		{"selector-sweep", e.albumsFromSelectorSweep},
		{"link-harvest", e.albumsFromLinkHarvest},
		{"json-key", e.albumsFromJSONKey},
	}

	doc := string(html)
	for _, s := range strategies {
		if albums := s.fn(doc); len(albums) > 0 {
			e.log.Debug("albums extracted", "strategy", s.name, "count", len(albums))
			return dedupeAlbums(albums)
		}
	}
	e.log.Debug("no albums found by any strategy")
	return nil
}

// Images extracts image descriptors from an album detail page.
func (e *Extractor) Images(html []byte) []Image {
	strategies := []struct {
		name string
		fn   func(string) []Image
	}{
		{"state-json", e.imagesFromStateJSON},
		{"regex", e.imagesFromRegex},
		{"dom", e.imagesFromDOM},
	}

	doc := string(html)
	for _, s := range strategies {
		if images := s.fn(doc); len(images) > 0 {
			e.log.Debug("images extracted", "strategy", s.name, "count", len(images))
			return dedupeImages(images)
		}
	}
	e.log.Debug("no images found by any strategy")
	return nil
}

// newAlbum builds a descriptor from raw extracted parts, applying title
// normalization and cover URL post-processing. Returns false when the album
// URL is unusable.
func (e *Extractor) newAlbum(rawTitle, rawURL, rawCover string, countHint int) (Album, bool) {
	sourceURL := ResolveAbsolute(rawURL, e.base)
	if sourceURL == "" {
		return Album{}, false
	}
	return Album{
		Title:          textnorm.AlbumName(rawTitle, sourceURL),
		SourceURL:      sourceURL,
		ImageCountHint: countHint,
		CoverURL:       cleanImageURL(rawCover, e.base),
	}, true
}

// newImage builds a descriptor from a raw URL candidate, applying the full
// URL post-processing pipeline. Returns false when the URL is discarded.
func (e *Extractor) newImage(rawURL, rawTitle, altText string, width, height int) (Image, bool) {
	cleaned := cleanImageURL(rawURL, e.base)
	if cleaned == "" {
		return Image{}, false
	}
	title := textnorm.CleanTitle(rawTitle)
	if title == "" {
		title = textnorm.CleanTitle(altText)
	}
	return Image{
		SourceURL: cleaned,
		Title:     title,
		AltText:   strings.TrimSpace(altText),
		Width:     width,
		Height:    height,
	}, true
}

// dedupeAlbums keeps the first descriptor per source URL.
func dedupeAlbums(albums []Album) []Album {
	seen := make(map[string]bool, len(albums))
	out := albums[:0]
	for _, a := range albums {
		if seen[a.SourceURL] {
			continue
		}
		seen[a.SourceURL] = true
		out = append(out, a)
	}
	return out
}

// dedupeImages keeps the first descriptor per resolved URL within one
// extraction pass.
func dedupeImages(images []Image) []Image {
	seen := make(map[string]bool, len(images))
	out := images[:0]
	for _, i := range images {
		if seen[i.SourceURL] {
			continue
		}
		seen[i.SourceURL] = true
		out = append(out, i)
	}
	return out
}
