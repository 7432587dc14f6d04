package gallery

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/pixarr/pixarr/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	return NewStore(db)
}

func TestCollectionLifecycle(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindCollectionAny()
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := s.CreateCollection("Imported", "Auto-created by importer")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	found, err := s.FindCollectionAny()
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
	assert.Equal(t, "Imported", found.Name)
}

func TestAlbumLifecycle(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCollection("Imported", "")
	require.NoError(t, err)

	_, err = s.FindAlbumByTitle("Beach Days")
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := s.CreateAlbum(c.ID, "Beach Days", "Imported from https://example.com/albums/1")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Empty(t, a.CoverPath)

	found, err := s.FindAlbumByTitle("Beach Days")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Equal(t, c.ID, found.CollectionID)

	require.NoError(t, s.SetAlbumCover(a.ID, "1/cover_abc12345.jpg"))
	found, err = s.FindAlbumByTitle("Beach Days")
	require.NoError(t, err)
	assert.Equal(t, "1/cover_abc12345.jpg", found.CoverPath)

	assert.ErrorIs(t, s.SetAlbumCover(9999, "x.jpg"), ErrNotFound)
}

func TestImageDedupe(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCollection("Imported", "")
	require.NoError(t, err)
	a, err := s.CreateAlbum(c.ID, "Beach Days", "")
	require.NoError(t, err)

	src := "https://cdn.example.com/photos/9.jpg"
	_, err = s.FindImageBySourceURL(src)
	assert.ErrorIs(t, err, ErrNotFound)

	img, err := s.CreateImage(a.ID, "Sunset", "1/sunset_a1b2c3d4.jpg", src, "")
	require.NoError(t, err)
	require.NotNil(t, img.SourceURL)
	assert.Equal(t, src, *img.SourceURL)

	found, err := s.FindImageBySourceURL(src)
	require.NoError(t, err)
	assert.Equal(t, img.ID, found.ID)

	// Unique index on source_url is the backstop.
	_, err = s.CreateImage(a.ID, "Sunset again", "1/sunset_other.jpg", src, "")
	assert.ErrorIs(t, err, ErrDuplicate)

	// Images without a source URL are not subject to the index.
	_, err = s.CreateImage(a.ID, "Manual", "1/manual.jpg", "", "")
	require.NoError(t, err)
	_, err = s.CreateImage(a.ID, "Manual 2", "1/manual2.jpg", "", "")
	require.NoError(t, err)
}

func TestListAlbumsAndCounts(t *testing.T) {
	s := newTestStore(t)

	c, err := s.CreateCollection("Imported", "")
	require.NoError(t, err)
	a1, err := s.CreateAlbum(c.ID, "One", "")
	require.NoError(t, err)
	a2, err := s.CreateAlbum(c.ID, "Two", "")
	require.NoError(t, err)

	_, err = s.CreateImage(a1.ID, "i1", "1/i1.jpg", "https://x/1.jpg", "")
	require.NoError(t, err)
	_, err = s.CreateImage(a1.ID, "i2", "1/i2.jpg", "https://x/2.jpg", "")
	require.NoError(t, err)

	albums, err := s.ListAlbums()
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "One", albums[0].Title)
	assert.Equal(t, 2, albums[0].ImageCount)
	assert.Equal(t, 0, albums[1].ImageCount)

	n, err := s.CountImages(a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.CountImages(a2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
