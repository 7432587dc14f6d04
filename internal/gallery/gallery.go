// Package gallery manages imported collections, albums, and images.
package gallery

import (
	"time"
)

// Collection groups albums. Every album belongs to exactly one collection.
type Collection struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Album is a persisted photo album.
type Album struct {
	ID           int64
	CollectionID int64
	Title        string
	Description  string
	CoverPath    string // empty until the first image is saved
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Image is a persisted photo within an album.
// SourceURL is the dedupe key: at most one image per distinct source URL.
type Image struct {
	ID          int64
	AlbumID     int64
	Title       string
	StoredPath  string
	Description string
	SourceURL   *string // nil for images not created by the importer
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AlbumSummary is an album row joined with its image count, for listings.
type AlbumSummary struct {
	Album
	ImageCount int
}
