package scrape

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	base := mustParse(t, "https://gallery.example.com")
	return New(base, "/albums/", slog.Default())
}

func TestAlbumsFromStateJSON(t *testing.T) {
	e := newTestExtractor(t)

	html := `<html><head><script>
		window.__INITIAL_STATE__ = {"albumList":{"list":[
			{"name":"Spring新品(精选)","url":"/albums/1001","cover":"//cdn/x_thumb.jpg","count":24},
			{"name":"Summer Looks","url":"/albums/1002","cover":"https://cdn/y.png"},
			{"name":"No URL Entry"}
		]}};
	</script></head><body></body></html>`

	albums := e.Albums([]byte(html))
	require.Len(t, albums, 2)

	assert.Equal(t, "Spring", albums[0].Title)
	assert.Equal(t, "https://gallery.example.com/albums/1001", albums[0].SourceURL)
	assert.Equal(t, "https://cdn/x.jpg", albums[0].CoverURL)
	assert.Equal(t, 24, albums[0].ImageCountHint)

	assert.Equal(t, "Summer Looks", albums[1].Title)
	assert.Equal(t, "https://cdn/y.png", albums[1].CoverURL)
	assert.Equal(t, 0, albums[1].ImageCountHint)
}

func TestAlbumsFromDOMContainer(t *testing.T) {
	e := newTestExtractor(t)

	html := `<html><body>
		<div class="album-list">
			<a href="/albums/7"><img src="//cdn/7_thumb.jpg" alt="Autumn Set"></a>
			<a href="/albums/8"><h3>Winter Set</h3></a>
			<a href="/about">not an album</a>
		</div>
		<a href="/albums/999">outside the container</a>
	</body></html>`

	albums := e.Albums([]byte(html))
	require.Len(t, albums, 2)
	assert.Equal(t, "Autumn Set", albums[0].Title)
	assert.Equal(t, "https://cdn/7.jpg", albums[0].CoverURL)
	assert.Equal(t, "Winter Set", albums[1].Title)
	assert.Equal(t, "https://gallery.example.com/albums/8", albums[1].SourceURL)
}

func TestAlbumsWholeDocumentWithoutContainer(t *testing.T) {
	e := newTestExtractor(t)

	html := `<html><body>
		<a href="/albums/11">First</a>
		<a href="/albums/12">Second</a>
		<a href="/albums/11">First again</a>
	</body></html>`

	albums := e.Albums([]byte(html))
	require.Len(t, albums, 2)
	assert.Equal(t, "https://gallery.example.com/albums/11", albums[0].SourceURL)
	assert.Equal(t, "https://gallery.example.com/albums/12", albums[1].SourceURL)
}

func TestAlbumsFromRegexDirect(t *testing.T) {
	e := newTestExtractor(t)

	doc := `<a href="/albums/42" class="x">Beach <b>Days</b></a> <span>17</span>`
	albums := e.albumsFromRegex(doc)
	require.Len(t, albums, 1)
	assert.Equal(t, "Beach Days", albums[0].Title)
	assert.Equal(t, "https://gallery.example.com/albums/42", albums[0].SourceURL)
	assert.Equal(t, 17, albums[0].ImageCountHint)
}

func TestAlbumsFromJSONKeyDirect(t *testing.T) {
	e := newTestExtractor(t)

	doc := `var payload = {"album_list": [{"title":"Hidden Gems","link":"/albums/300"}]};`
	albums := e.albumsFromJSONKey(doc)
	require.Len(t, albums, 1)
	assert.Equal(t, "Hidden Gems", albums[0].Title)
	assert.Equal(t, "https://gallery.example.com/albums/300", albums[0].SourceURL)
}

func TestAlbumsEmptyInput(t *testing.T) {
	e := newTestExtractor(t)
	assert.Empty(t, e.Albums(nil))
	assert.Empty(t, e.Albums([]byte("<html><body><p>nothing here</p></body></html>")))
}

func TestUntitledAlbumNaming(t *testing.T) {
	e := newTestExtractor(t)

	html := `<div class="album-list"><a href="/albums/55">...</a></div>`
	albums := e.Albums([]byte(html))
	require.Len(t, albums, 1)
	assert.Regexp(t, `^Untitled Album [0-9a-f]{6}$`, albums[0].Title)
}

func TestImagesFromStateJSON(t *testing.T) {
	e := newTestExtractor(t)

	html := `<script>window.__INITIAL_STATE__ = {"photoList":{"list":[
		{"url":"//cdn/p1_big.jpg","title":"Look 1","width":1200,"height":800},
		{"src":"/media/p2.png","alt":"second look"},
		{"caption":"no url at all"}
	]}};</script>`

	images := e.Images([]byte(html))
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn/p1.jpg", images[0].SourceURL)
	assert.Equal(t, "Look 1", images[0].Title)
	assert.Equal(t, 1200, images[0].Width)
	assert.Equal(t, 800, images[0].Height)
	assert.Equal(t, "https://gallery.example.com/media/p2.png", images[1].SourceURL)
	assert.Equal(t, "second look", images[1].AltText)
}

func TestImagesFromStateJSONDeepWalk(t *testing.T) {
	e := newTestExtractor(t)

	// No recognized list path; the bounded walk still finds URL-shaped strings.
	html := `<script>window.galleryData = {"meta":{"hero":{"asset":"https://cdn/hero.jpg"}}};</script>`
	images := e.Images([]byte(html))
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn/hero.jpg", images[0].SourceURL)
}

func TestImagesFromRegexDedupes(t *testing.T) {
	e := newTestExtractor(t)

	// data-src matches both the direct-link pattern and the lazy-load
	// pattern; the result must carry the URL once, upgraded.
	doc := `<img data-src="//photo.cdn/9_a1b2.jpg">`
	images := e.imagesFromRegex(doc)
	require.Len(t, images, 1)
	assert.Equal(t, "https://photo.cdn/9.jpg", images[0].SourceURL)
}

func TestImagesFromDOM(t *testing.T) {
	e := newTestExtractor(t)

	html := `<html><body><div class="photo-list">
		<img src="/p/1.jpg" alt="one">
		<img data-src="/p/2.webp" title="two">
		<img src="/assets/logo.png">
	</div></body></html>`

	images := e.imagesFromDOM(html)
	require.Len(t, images, 2)
	assert.Equal(t, "https://gallery.example.com/p/1.jpg", images[0].SourceURL)
	assert.Equal(t, "one", images[0].AltText)
	assert.Equal(t, "https://gallery.example.com/p/2.webp", images[1].SourceURL)
	assert.Equal(t, "two", images[1].Title)
}

func TestImagesFromDOMAnchorFallback(t *testing.T) {
	e := newTestExtractor(t)

	html := `<html><body>
		<a href="/full/a.jpg">Full size</a>
		<a href="/page.html">Not an image</a>
	</body></html>`

	images := e.imagesFromDOM(html)
	require.Len(t, images, 1)
	assert.Equal(t, "https://gallery.example.com/full/a.jpg", images[0].SourceURL)
	assert.Equal(t, "Full size", images[0].Title)
}

func TestImagesEmptyInput(t *testing.T) {
	e := newTestExtractor(t)
	assert.Empty(t, e.Images(nil))
}

func TestBalancedSlice(t *testing.T) {
	doc := `prefix {"a":{"b":"close } in string"},"c":[1,2]} suffix`
	open := 7
	got := balancedSlice(doc, open, '{', '}')
	assert.Equal(t, `{"a":{"b":"close } in string"},"c":[1,2]}`, got)

	assert.Equal(t, "", balancedSlice(`{"never closed`, 0, '{', '}'))
	assert.Equal(t, "", balancedSlice("abc", 1, '{', '}'))
}
