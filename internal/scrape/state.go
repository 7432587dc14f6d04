package scrape

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
)

// Embedded state extraction: gallery pages ship their server-rendered data
// model as a JSON blob assigned to a global inside a script tag. Field and
// key-path candidates are kept as data so the lookup order is inspectable.

var statePatterns = []*regexp.Regexp{
	regexp.MustCompile(`window\.__INITIAL_STATE__\s*=\s*\{`),
	regexp.MustCompile(`__INITIAL_STATE__\s*=\s*\{`),
	regexp.MustCompile(`window\.__NUXT__\s*=\s*\{`),
	regexp.MustCompile(`window\.galleryData\s*=\s*\{`),
}

var (
	albumKeyPaths = []string{"albumList.list", "data.albums", "albums", "photoList.list", "list"}
	imageKeyPaths = []string{"photoList.list", "imageList.list", "data.photos", "data.images", "photos", "images", "list"}

	albumTitleFields = []string{"name", "title"}
	albumURLFields   = []string{"url", "link", "href"}
	albumCoverFields = []string{"cover", "image", "thumb", "cover_url", "coverUrl"}
	albumCountFields = []string{"count", "total", "photo_count", "photoCount", "image_count"}

	imageURLFields   = []string{"url", "imageUrl", "image_url", "src", "photoUrl", "photo_url", "original", "large", "thumb"}
	imageTitleFields = []string{"title", "name", "caption"}
	imageAltFields   = []string{"alt", "altText", "description"}
	imageSizeFields  = map[string][]string{"width": {"width", "w"}, "height": {"height", "h"}}
)

// maxWalkDepth bounds the generic JSON walk so adversarial nesting cannot
// recurse without limit.
const maxWalkDepth = 10

func (e *Extractor) albumsFromStateJSON(doc string) []Album {
	state, ok := e.embeddedState(doc)
	if !ok {
		return nil
	}

	items := firstArrayAtPaths(state, albumKeyPaths)
	var albums []Album
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			e.log.Debug("skipping non-object album entry in state json")
			continue
		}
		rawURL := stringField(m, albumURLFields)
		if rawURL == "" {
			e.log.Debug("skipping album entry without url field")
			continue
		}
		a, ok := e.newAlbum(stringField(m, albumTitleFields), rawURL,
			stringField(m, albumCoverFields), intField(m, albumCountFields))
		if !ok {
			continue
		}
		albums = append(albums, a)
	}
	return albums
}

func (e *Extractor) imagesFromStateJSON(doc string) []Image {
	state, ok := e.embeddedState(doc)
	if !ok {
		return nil
	}

	items := firstArrayAtPaths(state, imageKeyPaths)
	var images []Image
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			rawURL := stringField(v, imageURLFields)
			if rawURL == "" {
				continue
			}
			img, ok := e.newImage(rawURL, stringField(v, imageTitleFields),
				stringField(v, imageAltFields),
				intField(v, imageSizeFields["width"]), intField(v, imageSizeFields["height"]))
			if !ok {
				continue
			}
			images = append(images, img)
		case string:
			if img, ok := e.newImage(v, "", "", 0, 0); ok {
				images = append(images, img)
			}
		}
	}
	if len(images) > 0 {
		return images
	}

	// Ultimate fallback: walk the whole state for anything shaped like an
	// image URL, bounded by maxWalkDepth.
	for _, raw := range collectImageStrings(state, 0) {
		if img, ok := e.newImage(raw, "", "", 0, 0); ok {
			images = append(images, img)
		}
	}
	return images
}

// albumsFromJSONKey looks for a bare "album_list": [...] array anywhere in
// the raw HTML, independent of script-tag wrapping.
var jsonKeyRegex = regexp.MustCompile(`"album_list"\s*:\s*\[`)

func (e *Extractor) albumsFromJSONKey(doc string) []Album {
	loc := jsonKeyRegex.FindStringIndex(doc)
	if loc == nil {
		return nil
	}
	raw := balancedSlice(doc, loc[1]-1, '[', ']')
	if raw == "" {
		return nil
	}

	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		e.log.Debug("album_list json did not parse", "error", err)
		return nil
	}

	var albums []Album
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rawURL := stringField(m, albumURLFields)
		if rawURL == "" {
			continue
		}
		a, ok := e.newAlbum(stringField(m, albumTitleFields), rawURL,
			stringField(m, albumCoverFields), intField(m, albumCountFields))
		if !ok {
			continue
		}
		albums = append(albums, a)
	}
	return albums
}

// embeddedState locates and parses the global-state JSON blob.
func (e *Extractor) embeddedState(doc string) (map[string]any, bool) {
	for _, pat := range statePatterns {
		loc := pat.FindStringIndex(doc)
		if loc == nil {
			continue
		}
		raw := balancedSlice(doc, loc[1]-1, '{', '}')
		if raw == "" {
			continue
		}
		var state map[string]any
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			e.log.Debug("embedded state did not parse", "error", err)
			continue
		}
		return state, true
	}
	return nil, false
}

// balancedSlice returns the substring of doc starting at open (which must
// hold the opening delimiter) through its matching close delimiter,
// honouring JSON string quoting and escapes. Returns "" when unbalanced.
func balancedSlice(doc string, open int, openCh, closeCh byte) string {
	if open < 0 || open >= len(doc) || doc[open] != openCh {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(doc); i++ {
		c := doc[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return doc[open : i+1]
			}
		}
	}
	return ""
}

// firstArrayAtPaths walks the candidate key paths in order and returns the
// first that resolves to a non-empty array.
func firstArrayAtPaths(root map[string]any, paths []string) []any {
	for _, path := range paths {
		if arr := arrayAtPath(root, path); len(arr) > 0 {
			return arr
		}
	}
	return nil
}

func arrayAtPath(root map[string]any, path string) []any {
	var cur any = root
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		key := path[start:i]
		start = i + 1
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	arr, _ := cur.([]any)
	return arr
}

// collectImageStrings recursively gathers string values shaped like image
// URLs, stopping at maxWalkDepth.
func collectImageStrings(v any, depth int) []string {
	if depth > maxWalkDepth {
		return nil
	}
	switch t := v.(type) {
	case string:
		if HasImageExtension(t) {
			return []string{t}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic traversal order
		var out []string
		for _, k := range keys {
			out = append(out, collectImageStrings(t[k], depth+1)...)
		}
		return out
	case []any:
		var out []string
		for _, child := range t {
			out = append(out, collectImageStrings(child, depth+1)...)
		}
		return out
	}
	return nil
}

// stringField returns the first non-empty string among the candidate keys.
func stringField(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first usable integer among the candidate keys,
// accepting JSON numbers and numeric strings.
func intField(m map[string]any, keys []string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}
