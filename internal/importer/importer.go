// Package importer orchestrates a full import run: listing extraction,
// per-album image extraction, download, and persistence, with per-item
// error isolation and aggregate stats.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/pixarr/pixarr/internal/fetch"
	"github.com/pixarr/pixarr/internal/gallery"
	"github.com/pixarr/pixarr/internal/scrape"
	"github.com/pixarr/pixarr/pkg/textnorm"
)

// defaultCollection is the name of the auto-provisioned collection new
// albums are filed under when the datastore holds none.
const defaultCollection = "Imported"

// similarityWarnThreshold triggers a log warning for album titles that
// nearly match an earlier title in the same run.
const similarityWarnThreshold = 0.92

// Datastore is the persistence surface a run needs.
type Datastore interface {
	FindCollectionAny() (*gallery.Collection, error)
	CreateCollection(name, description string) (*gallery.Collection, error)
	FindAlbumByTitle(title string) (*gallery.Album, error)
	CreateAlbum(collectionID int64, title, description string) (*gallery.Album, error)
	SetAlbumCover(albumID int64, path string) error
	FindImageBySourceURL(sourceURL string) (*gallery.Image, error)
	CreateImage(albumID int64, title, storedPath, sourceURL, description string) (*gallery.Image, error)
}

// PageFetcher retrieves listing and album detail pages.
type PageFetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// ImageFetcher downloads one image into storage and returns its key.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL, dir, title string) (string, int64, error)
}

// Options tunes a run. Zero values mean: no album cap, sequential
// downloads, no delays, no progress reporting.
type Options struct {
	MaxAlbums   int
	Concurrency int
	ImageDelay  time.Duration
	AlbumDelay  time.Duration
	Progress    ProgressFunc
}

// Importer drives import runs against one gallery source.
type Importer struct {
	ds     Datastore
	pages  PageFetcher
	images ImageFetcher
	ex     *scrape.Extractor
	opts   Options
	log    *slog.Logger

	mu           sync.Mutex
	claimed      map[string]bool
	coverSet     map[int64]bool
	collectionID int64
}

// New creates an Importer. Concurrency is clamped to 1..8.
func New(ds Datastore, pages PageFetcher, images ImageFetcher, ex *scrape.Extractor, opts Options, log *slog.Logger) *Importer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Concurrency > 8 {
		opts.Concurrency = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		ds:     ds,
		pages:  pages,
		images: images,
		ex:     ex,
		opts:   opts,
		log:    log,
	}
}

// Run imports from the given listing URL. Item-level failures are recorded
// in the returned stats, never raised; only context cancellation yields a
// non-nil error, alongside the partial stats.
func (im *Importer) Run(ctx context.Context, listingURL string) (*Stats, error) {
	stats := &Stats{}
	im.mu.Lock()
	im.claimed = make(map[string]bool)
	im.coverSet = make(map[int64]bool)
	im.collectionID = 0
	im.mu.Unlock()

	page, err := im.pages.Get(ctx, listingURL)
	if err != nil {
		im.record(stats, fmt.Sprintf("fetch album listing %s: %v", listingURL, err))
		return stats, nil
	}

	albums := im.ex.Albums(page.Body)
	stats.TotalAlbums = len(albums)
	im.report(PhaseAlbums, 0, len(albums), fmt.Sprintf("found %d albums", len(albums)))
	if len(albums) == 0 {
		im.log.Info("listing page yielded no albums", "url", listingURL)
		return stats, nil
	}

	var seenTitles []string
	for i, album := range albums {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if im.opts.MaxAlbums > 0 && stats.ImportedAlbums >= im.opts.MaxAlbums {
			im.log.Info("album limit reached", "limit", im.opts.MaxAlbums)
			break
		}

		im.report(PhaseAlbums, i+1, len(albums), album.Title)
		im.importAlbum(ctx, stats, album, seenTitles)
		seenTitles = append(seenTitles, album.Title)

		if i < len(albums)-1 {
			sleepCtx(ctx, im.opts.AlbumDelay)
		}
	}
	return stats, ctx.Err()
}

// importAlbum processes one album end to end. Failures are recorded and
// never abort the run.
func (im *Importer) importAlbum(ctx context.Context, stats *Stats, album scrape.Album, seenTitles []string) {
	dbAlbum, created, err := im.ensureAlbum(album, seenTitles)
	if err != nil {
		im.record(stats, fmt.Sprintf("album %q (%s): %v", album.Title, album.SourceURL, err))
		return
	}
	if created {
		stats.ImportedAlbums++
	} else {
		stats.SkippedAlbums++
	}

	page, err := im.pages.Get(ctx, album.SourceURL)
	if err != nil {
		im.record(stats, fmt.Sprintf("fetch album %q (%s): %v", album.Title, album.SourceURL, err))
		return
	}

	images := im.ex.Images(page.Body)
	im.report(PhaseImages, 0, len(images), album.Title)
	if len(images) == 0 {
		im.log.Info("album page yielded no images", "album", album.Title, "url", album.SourceURL)
		return
	}

	dir := strconv.FormatInt(dbAlbum.ID, 10)
	coverKnown := dbAlbum.CoverPath != ""

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.opts.Concurrency)
	for i, img := range images {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			im.importImage(gctx, stats, dbAlbum, dir, img, coverKnown)
			im.report(PhaseDownload, i+1, len(images), img.SourceURL)
			sleepCtx(gctx, im.opts.ImageDelay)
			return nil
		})
	}
	_ = g.Wait()
}

// ensureAlbum returns the persisted album for a descriptor, creating it
// (and the default collection) when absent. created reports whether a new
// row was written.
func (im *Importer) ensureAlbum(album scrape.Album, seenTitles []string) (*gallery.Album, bool, error) {
	existing, err := im.ds.FindAlbumByTitle(album.Title)
	if err == nil {
		im.log.Debug("album already present, reprocessing images", "title", album.Title)
		return existing, false, nil
	}
	if !errors.Is(err, gallery.ErrNotFound) {
		return nil, false, fmt.Errorf("looking up album: %w", err)
	}

	im.warnNearDuplicate(album.Title, seenTitles)

	collectionID, err := im.ensureCollection()
	if err != nil {
		return nil, false, err
	}

	created, err := im.ds.CreateAlbum(collectionID, album.Title, album.SourceURL)
	if errors.Is(err, gallery.ErrDuplicate) {
		// Lost a race with a concurrent writer; reuse the winner's row.
		existing, err := im.ds.FindAlbumByTitle(album.Title)
		if err != nil {
			return nil, false, fmt.Errorf("looking up album after duplicate: %w", err)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating album: %w", err)
	}
	return created, true, nil
}

// ensureCollection resolves the collection new albums belong to, creating
// the default one on first use.
func (im *Importer) ensureCollection() (int64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.collectionID != 0 {
		return im.collectionID, nil
	}

	col, err := im.ds.FindCollectionAny()
	if errors.Is(err, gallery.ErrNotFound) {
		col, err = im.ds.CreateCollection(defaultCollection, "Albums imported from the gallery source")
	}
	if err != nil {
		return 0, fmt.Errorf("provisioning collection: %w", err)
	}
	im.collectionID = col.ID
	return col.ID, nil
}

// importImage handles one image: claim, duplicate check, download, persist,
// cover assignment. All failures are recorded against stats.
func (im *Importer) importImage(ctx context.Context, stats *Stats, album *gallery.Album, dir string, img scrape.Image, coverKnown bool) {
	if !im.claim(img.SourceURL) {
		im.bump(func() { stats.SkippedImages++ })
		return
	}

	if _, err := im.ds.FindImageBySourceURL(img.SourceURL); err == nil {
		im.bump(func() { stats.SkippedImages++ })
		return
	} else if !errors.Is(err, gallery.ErrNotFound) {
		im.record(stats, fmt.Sprintf("image lookup %s: %v", img.SourceURL, err))
		return
	}

	title := textnorm.ImageName(img.Title)
	key, _, err := im.images.Fetch(ctx, img.SourceURL, dir, title)
	if err != nil {
		im.record(stats, fmt.Sprintf("download %s (album %q): %v", img.SourceURL, album.Title, err))
		return
	}

	if _, err := im.ds.CreateImage(album.ID, title, key, img.SourceURL, img.AltText); err != nil {
		if errors.Is(err, gallery.ErrDuplicate) {
			im.bump(func() { stats.SkippedImages++ })
			return
		}
		im.record(stats, fmt.Sprintf("persist %s (album %q): %v", img.SourceURL, album.Title, err))
		return
	}

	im.maybeSetCover(stats, album, key, coverKnown)
	im.bump(func() { stats.ImportedImages++ })
}

// claim marks a source URL as owned by this run. Returns false when another
// worker already took it.
func (im *Importer) claim(sourceURL string) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.claimed[sourceURL] {
		return false
	}
	im.claimed[sourceURL] = true
	return true
}

// maybeSetCover assigns the album cover exactly once per album: the first
// successfully imported image wins.
func (im *Importer) maybeSetCover(stats *Stats, album *gallery.Album, key string, coverKnown bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if coverKnown || im.coverSet[album.ID] {
		return
	}
	im.coverSet[album.ID] = true
	if err := im.ds.SetAlbumCover(album.ID, key); err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("set cover for album %q: %v", album.Title, err))
	}
}

// warnNearDuplicate logs when a new title closely resembles one already
// processed this run. Advisory only.
func (im *Importer) warnNearDuplicate(title string, seenTitles []string) {
	for _, seen := range seenTitles {
		sim, err := edlib.StringsSimilarity(title, seen, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(sim) >= similarityWarnThreshold {
			im.log.Warn("album title closely resembles an earlier one",
				"title", title, "existing", seen, "similarity", sim)
			return
		}
	}
}

func (im *Importer) record(stats *Stats, msg string) {
	im.mu.Lock()
	stats.Errors = append(stats.Errors, msg)
	im.mu.Unlock()
	im.log.Warn("import item failed", "error", msg)
}

// bump applies a stats mutation under the importer lock.
func (im *Importer) bump(fn func()) {
	im.mu.Lock()
	fn()
	im.mu.Unlock()
}

func (im *Importer) report(phase Phase, current, total int, message string) {
	if im.opts.Progress != nil {
		im.opts.Progress(phase, current, total, message)
	}
}

// sleepCtx waits for d unless d is zero or ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 || ctx.Err() != nil {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
