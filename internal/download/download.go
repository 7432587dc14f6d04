// Package download fetches remote images, validates them, and writes them to
// blob storage under deterministic names so re-runs are idempotent.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pixarr/pixarr/internal/blob"
	"github.com/pixarr/pixarr/internal/fetch"
	"github.com/pixarr/pixarr/internal/scrape"
	"github.com/pixarr/pixarr/pkg/textnorm"
)

// Getter is the fetch surface the downloader needs.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*fetch.Page, error)
}

const (
	defaultRetries        = 2
	defaultInitialBackoff = 500 * time.Millisecond
	defaultBackoffCap     = 5 * time.Second
)

// Downloader retrieves image bytes and stores them.
type Downloader struct {
	client         Getter
	store          blob.Store
	retries        int
	initialBackoff time.Duration
	backoffCap     time.Duration
	log            *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithRetries sets how many times a transient failure is retried after the
// first attempt.
func WithRetries(n int) Option {
	return func(d *Downloader) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// WithBackoff sets the initial retry delay and its ceiling. The delay
// doubles per attempt up to the ceiling.
func WithBackoff(initial, ceiling time.Duration) Option {
	return func(d *Downloader) {
		if initial > 0 {
			d.initialBackoff = initial
		}
		if ceiling > 0 {
			d.backoffCap = ceiling
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Downloader) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a Downloader writing through the given fetch client and blob
// store. The client should carry the longer image timeout, not the page one.
func New(client Getter, store blob.Store, opts ...Option) *Downloader {
	d := &Downloader{
		client:         client,
		store:          store,
		retries:        defaultRetries,
		initialBackoff: defaultInitialBackoff,
		backoffCap:     defaultBackoffCap,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads imageURL into dir and returns the stored key and payload
// size. An already-present object short-circuits without a network call.
func (d *Downloader) Fetch(ctx context.Context, imageURL, dir, title string) (string, int64, error) {
	if scrape.IsPlaceholder(imageURL) {
		return "", 0, fmt.Errorf("%w: placeholder asset %s", ErrRejected, imageURL)
	}
	if !scrape.HasImageExtension(imageURL) {
		return "", 0, fmt.Errorf("%w: no image extension in %s", ErrRejected, imageURL)
	}

	key := path.Join(dir, Filename(imageURL, title))
	if exists, err := d.store.Exists(key); err != nil {
		return "", 0, fmt.Errorf("checking %s: %w", key, err)
	} else if exists {
		size, err := d.store.Size(key)
		if err != nil {
			return "", 0, fmt.Errorf("sizing existing %s: %w", key, err)
		}
		d.log.Debug("image already stored", "key", key, "size", size)
		return key, size, nil
	}

	body, err := d.fetchWithRetry(ctx, imageURL)
	if err != nil {
		return "", 0, err
	}

	if err := validateImage(body); err != nil {
		return "", 0, fmt.Errorf("%s: %w", imageURL, err)
	}

	if dir != "" {
		if err := d.store.MakeDirectory(dir); err != nil {
			return "", 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := d.store.Put(key, body); err != nil {
		return "", 0, fmt.Errorf("storing %s: %w", key, err)
	}

	if err := d.verifyStored(key, int64(len(body))); err != nil {
		return "", 0, err
	}
	d.log.Debug("image stored", "key", key, "size", len(body))
	return key, int64(len(body)), nil
}

// fetchWithRetry retries transport and status failures with exponential
// backoff. Context cancellation aborts the wait.
func (d *Downloader) fetchWithRetry(ctx context.Context, imageURL string) ([]byte, error) {
	backoff := d.initialBackoff
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			d.log.Debug("retrying download", "url", imageURL, "attempt", attempt, "backoff", backoff)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
			if backoff > d.backoffCap {
				backoff = d.backoffCap
			}
		}

		page, err := d.client.Get(ctx, imageURL)
		if err == nil {
			return page.Body, nil
		}
		if !errors.Is(err, fetch.ErrTransport) && !errors.Is(err, fetch.ErrStatus) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("download %s: %w", imageURL, lastErr)
}

func (d *Downloader) verifyStored(key string, want int64) error {
	exists, err := d.store.Exists(key)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s missing after write", ErrIntegrity, key)
	}
	size, err := d.store.Size(key)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", key, err)
	}
	if size != want {
		return fmt.Errorf("%w: %s has %d bytes, wrote %d", ErrIntegrity, key, size, want)
	}
	return nil
}

// Filename derives the deterministic storage name for a source URL:
// slug of the title (or "image") plus an 8-hex hash of the URL, keeping the
// URL's extension. Re-runs against the same URL reuse the same name.
func Filename(imageURL, title string) string {
	slug := textnorm.Slugify(title)
	if slug == "" {
		slug = "image"
	}
	h := fnv.New32a()
	h.Write([]byte(imageURL))
	return fmt.Sprintf("%s_%08x%s", slug, h.Sum32(), urlExtension(imageURL))
}

func urlExtension(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

// validateImage sniffs the payload's magic bytes for JPEG, PNG, GIF, or
// WEBP. The URL extension is never trusted.
func validateImage(body []byte) error {
	switch {
	case len(body) == 0:
		return fmt.Errorf("%w: empty payload", ErrValidation)
	case len(body) >= 3 && bytes.Equal(body[:3], []byte{0xFF, 0xD8, 0xFF}):
		return nil // JPEG
	case len(body) >= 8 && bytes.Equal(body[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return nil // PNG
	case len(body) >= 6 && (bytes.Equal(body[:6], []byte("GIF87a")) || bytes.Equal(body[:6], []byte("GIF89a"))):
		return nil // GIF
	case len(body) >= 12 && bytes.Equal(body[:4], []byte("RIFF")) && bytes.Equal(body[8:12], []byte("WEBP")):
		return nil
	}
	return fmt.Errorf("%w: payload is not jpeg, png, gif, or webp", ErrValidation)
}
