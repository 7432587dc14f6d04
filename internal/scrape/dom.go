package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOM strategies parse the page with goquery. Selector candidate lists are
// data: ordered from site-specific to generic.

var albumContainerSelectors = []string{
	".album-list", ".albums", ".gallery-list", ".photo-albums", ".album-grid",
}

// Progressively more generic selectors for the sweep strategy; a candidate
// wins when its elements carry both an image and a link descendant.
var sweepSelectors = []string{
	"div.album", "li.album", ".album-item", ".gallery-item",
	".item", ".card", ".grid-item", ".list-item",
}

var imageContainerSelectors = []string{
	".photo-list img", ".photos img", ".gallery img", ".album-photos img", ".image-grid img",
}

// lazy-load attributes consulted in order when an img has no usable src.
var lazySrcAttrs = []string{"src", "data-src", "data-original", "data-lazy-src"}

func parseDoc(doc string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(doc))
}

// albumsFromContainers locates a known album container and scans its anchors
// for album links. With no matching container the whole document is scanned.
func (e *Extractor) albumsFromContainers(doc string) []Album {
	d, err := parseDoc(doc)
	if err != nil {
		e.log.Debug("html did not parse", "error", err)
		return nil
	}

	scope := d.Selection
	for _, sel := range albumContainerSelectors {
		if found := d.Find(sel); found.Length() > 0 {
			scope = found
			break
		}
	}

	var albums []Album
	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, e.marker) {
			return
		}
		if album, ok := e.albumFromAnchor(a, href); ok {
			albums = append(albums, album)
		}
	})
	return dedupeAlbums(albums)
}

// albumsFromSelectorSweep tries progressively more generic item selectors
// until one yields elements carrying both an image and an album link.
func (e *Extractor) albumsFromSelectorSweep(doc string) []Album {
	d, err := parseDoc(doc)
	if err != nil {
		return nil
	}

	for _, sel := range sweepSelectors {
		var albums []Album
		d.Find(sel).Each(func(_ int, item *goquery.Selection) {
			if item.Find("img").Length() == 0 {
				return
			}
			a := item.Find("a[href]").First()
			href, ok := a.Attr("href")
			if !ok || !strings.Contains(href, e.marker) {
				return
			}
			if album, ok := e.albumFromAnchor(a, href); ok {
				// Cover may hang off the item rather than the anchor.
				if album.CoverURL == "" {
					album.CoverURL = cleanImageURL(coverFromImg(item.Find("img").First()), e.base)
				}
				albums = append(albums, album)
			}
		})
		if len(albums) > 0 {
			return dedupeAlbums(albums)
		}
	}
	return nil
}

// albumsFromLinkHarvest is the last resort: every anchor in the document
// whose href contains the album path marker, deduplicated structurally.
func (e *Extractor) albumsFromLinkHarvest(doc string) []Album {
	d, err := parseDoc(doc)
	if err != nil {
		return nil
	}

	seen := make(map[Album]bool)
	var albums []Album
	d.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, e.marker) {
			return
		}
		album, ok := e.albumFromAnchor(a, href)
		if !ok || seen[album] {
			return
		}
		seen[album] = true
		albums = append(albums, album)
	})
	return albums
}

// albumFromAnchor derives title and cover for one album anchor: title from
// child img alt/title, else a nested title-like element, else anchor text.
func (e *Extractor) albumFromAnchor(a *goquery.Selection, href string) (Album, bool) {
	title := ""
	img := a.Find("img").First()
	if img.Length() > 0 {
		if alt, ok := img.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			title = alt
		} else if t, ok := img.Attr("title"); ok && strings.TrimSpace(t) != "" {
			title = t
		}
	}
	if title == "" {
		if el := a.Find(".title, .name, h2, h3, h4").First(); el.Length() > 0 {
			title = el.Text()
		}
	}
	if title == "" {
		title = a.Text()
	}

	return e.newAlbum(title, href, coverFromImg(img), 0)
}

// coverFromImg pulls a cover candidate from an img element: src, lazy-load
// attributes, or the first data-srcset entry.
func coverFromImg(img *goquery.Selection) string {
	if img == nil || img.Length() == 0 {
		return ""
	}
	for _, attr := range lazySrcAttrs {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	if srcset, ok := img.Attr("data-srcset"); ok {
		first := strings.TrimSpace(strings.Split(srcset, ",")[0])
		if fields := strings.Fields(first); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// imagesFromDOM scans known gallery containers, then generic img tags, then
// anchors pointing directly at image files.
func (e *Extractor) imagesFromDOM(doc string) []Image {
	d, err := parseDoc(doc)
	if err != nil {
		e.log.Debug("html did not parse", "error", err)
		return nil
	}

	var images []Image
	collect := func(_ int, img *goquery.Selection) {
		raw := coverFromImg(img)
		if raw == "" {
			return
		}
		alt, _ := img.Attr("alt")
		title, _ := img.Attr("title")
		if i, ok := e.newImage(raw, title, alt, 0, 0); ok {
			images = append(images, i)
		}
	}

	for _, sel := range imageContainerSelectors {
		d.Find(sel).Each(collect)
		if len(images) > 0 {
			return dedupeImages(images)
		}
	}

	d.Find("img").Each(collect)
	if len(images) > 0 {
		return dedupeImages(images)
	}

	d.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !HasImageExtension(href) {
			return
		}
		if i, ok := e.newImage(href, a.Text(), "", 0, 0); ok {
			images = append(images, i)
		}
	})
	return dedupeImages(images)
}
