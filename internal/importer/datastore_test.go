package importer_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pixarr/pixarr/internal/blob"
	"github.com/pixarr/pixarr/internal/download"
	"github.com/pixarr/pixarr/internal/fetch"
	"github.com/pixarr/pixarr/internal/gallery"
	"github.com/pixarr/pixarr/internal/importer"
	"github.com/pixarr/pixarr/internal/mocks"
	"github.com/pixarr/pixarr/internal/scrape"
)

// singleAlbumSite serves one album with one valid image.
func singleAlbumSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/browse", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="album-list"><a href="/albums/1">Solo Set</a></div>`)
	})
	mux.HandleFunc("/albums/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="photo-list"><img src="/img/a.jpg" alt="one"></div>`)
	})
	mux.HandleFunc("/img/a.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write(jpegPayload)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newMockedImporter(t *testing.T, srv *httptest.Server, ds importer.Datastore) *importer.Importer {
	t.Helper()

	blobs, err := blob.NewLocal(t.TempDir())
	require.NoError(t, err)
	base, err := fetch.ResolveBase(srv.URL)
	require.NoError(t, err)

	client := fetch.NewClient()
	dl := download.New(client, blobs, download.WithBackoff(time.Millisecond, 5*time.Millisecond))
	ex := scrape.New(base, "/albums/", slog.Default())

	return importer.New(ds, client, dl, ex, importer.Options{}, slog.Default())
}

func TestRunRecordsPersistenceFailure(t *testing.T) {
	srv := singleAlbumSite(t)
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDatastore(ctrl)

	ds.EXPECT().FindAlbumByTitle("Solo Set").Return(nil, gallery.ErrNotFound)
	ds.EXPECT().FindCollectionAny().Return(nil, gallery.ErrNotFound)
	ds.EXPECT().CreateCollection("Imported", gomock.Any()).
		Return(&gallery.Collection{ID: 1, Name: "Imported"}, nil)
	ds.EXPECT().CreateAlbum(int64(1), "Solo Set", gomock.Any()).
		Return(&gallery.Album{ID: 5, CollectionID: 1, Title: "Solo Set"}, nil)
	ds.EXPECT().FindImageBySourceURL(gomock.Any()).Return(nil, gallery.ErrNotFound)
	ds.EXPECT().CreateImage(int64(5), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("disk full"))
	// No SetAlbumCover: a failed persist must not win the cover.

	imp := newMockedImporter(t, srv, ds)
	stats, err := imp.Run(context.Background(), srv.URL+"/browse")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ImportedAlbums)
	assert.Equal(t, 0, stats.ImportedImages)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "disk full")
}

func TestRunReusesExistingCollection(t *testing.T) {
	srv := singleAlbumSite(t)
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDatastore(ctrl)

	ds.EXPECT().FindAlbumByTitle("Solo Set").Return(nil, gallery.ErrNotFound)
	ds.EXPECT().FindCollectionAny().
		Return(&gallery.Collection{ID: 9, Name: "Favorites"}, nil)
	ds.EXPECT().CreateAlbum(int64(9), "Solo Set", gomock.Any()).
		Return(&gallery.Album{ID: 3, CollectionID: 9, Title: "Solo Set"}, nil)
	ds.EXPECT().FindImageBySourceURL(gomock.Any()).Return(nil, gallery.ErrNotFound)
	ds.EXPECT().CreateImage(int64(3), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&gallery.Image{ID: 1, AlbumID: 3}, nil)
	ds.EXPECT().SetAlbumCover(int64(3), gomock.Any()).Return(nil)

	imp := newMockedImporter(t, srv, ds)
	stats, err := imp.Run(context.Background(), srv.URL+"/browse")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ImportedAlbums)
	assert.Equal(t, 1, stats.ImportedImages)
	assert.Empty(t, stats.Errors)
}

func TestRunRecoversFromDuplicateAlbumRace(t *testing.T) {
	srv := singleAlbumSite(t)
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDatastore(ctrl)

	existing := &gallery.Album{ID: 7, CollectionID: 1, Title: "Solo Set", CoverPath: "7/cover.jpg"}

	ds.EXPECT().FindAlbumByTitle("Solo Set").Return(nil, gallery.ErrNotFound)
	ds.EXPECT().FindCollectionAny().Return(&gallery.Collection{ID: 1}, nil)
	ds.EXPECT().CreateAlbum(int64(1), "Solo Set", gomock.Any()).
		Return(nil, gallery.ErrDuplicate)
	ds.EXPECT().FindAlbumByTitle("Solo Set").Return(existing, nil)
	ds.EXPECT().FindImageBySourceURL(gomock.Any()).Return(nil, gallery.ErrNotFound)
	ds.EXPECT().CreateImage(int64(7), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&gallery.Image{ID: 2, AlbumID: 7}, nil)
	// Cover already set on the existing album; must not be overwritten.

	imp := newMockedImporter(t, srv, ds)
	stats, err := imp.Run(context.Background(), srv.URL+"/browse")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.ImportedAlbums)
	assert.Equal(t, 1, stats.SkippedAlbums)
	assert.Equal(t, 1, stats.ImportedImages)
	assert.Empty(t, stats.Errors)
}
