package gallery

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store provides access to gallery data.
type Store struct {
	db *sql.DB
}

// NewStore creates a new gallery store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

// FindCollectionAny returns any existing collection, preferring the oldest.
// Returns ErrNotFound when no collections exist.
func (s *Store) FindCollectionAny() (*Collection, error) {
	c := &Collection{}
	err := s.db.QueryRow(`
		SELECT id, name, description, created_at
		FROM collections ORDER BY id LIMIT 1`,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", mapSQLiteError(err))
	}
	return c, nil
}

// CreateCollection inserts a new collection and sets its ID and CreatedAt.
func (s *Store) CreateCollection(name, description string) (*Collection, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO collections (name, description, created_at)
		VALUES (?, ?, ?)`,
		name, description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return &Collection{ID: id, Name: name, Description: description, CreatedAt: now}, nil
}

// FindAlbumByTitle looks up an album by exact title.
// Returns ErrNotFound if no album matches.
func (s *Store) FindAlbumByTitle(title string) (*Album, error) {
	a := &Album{}
	err := s.db.QueryRow(`
		SELECT id, collection_id, title, description, cover_path, created_at, updated_at
		FROM albums WHERE title = ?`, title,
	).Scan(&a.ID, &a.CollectionID, &a.Title, &a.Description, &a.CoverPath, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find album %q: %w", title, mapSQLiteError(err))
	}
	return a, nil
}

// CreateAlbum inserts a new album and sets its ID and timestamps.
func (s *Store) CreateAlbum(collectionID int64, title, description string) (*Album, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO albums (collection_id, title, description, cover_path, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?)`,
		collectionID, title, description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert album %q: %w", title, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return &Album{
		ID:           id,
		CollectionID: collectionID,
		Title:        title,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetAlbumCover sets an album's cover path.
// Returns ErrNotFound if the album does not exist.
func (s *Store) SetAlbumCover(albumID int64, path string) error {
	result, err := s.db.Exec(`
		UPDATE albums SET cover_path = ?, updated_at = ?
		WHERE id = ?`,
		path, time.Now(), albumID,
	)
	if err != nil {
		return fmt.Errorf("update album %d cover: %w", albumID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update album %d cover: %w", albumID, ErrNotFound)
	}
	return nil
}

// FindImageBySourceURL looks up an image by its source URL.
// Returns ErrNotFound if no image was imported from that URL.
func (s *Store) FindImageBySourceURL(sourceURL string) (*Image, error) {
	i := &Image{}
	err := s.db.QueryRow(`
		SELECT id, album_id, title, stored_path, description, source_url, created_at, updated_at
		FROM images WHERE source_url = ?`, sourceURL,
	).Scan(&i.ID, &i.AlbumID, &i.Title, &i.StoredPath, &i.Description, &i.SourceURL, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find image by source url: %w", mapSQLiteError(err))
	}
	return i, nil
}

// CreateImage inserts a new image row and sets its ID and timestamps.
// A duplicate source URL surfaces as ErrDuplicate via the unique index.
func (s *Store) CreateImage(albumID int64, title, storedPath, sourceURL, description string) (*Image, error) {
	now := time.Now()
	var src *string
	if sourceURL != "" {
		src = &sourceURL
	}
	result, err := s.db.Exec(`
		INSERT INTO images (album_id, title, stored_path, description, source_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		albumID, title, storedPath, description, src, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert image %q: %w", title, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return &Image{
		ID:          id,
		AlbumID:     albumID,
		Title:       title,
		StoredPath:  storedPath,
		Description: description,
		SourceURL:   src,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ListAlbums returns all albums with their image counts, ordered by ID.
func (s *Store) ListAlbums() ([]*AlbumSummary, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.collection_id, a.title, a.description, a.cover_path, a.created_at, a.updated_at,
		       COUNT(i.id)
		FROM albums a
		LEFT JOIN images i ON i.album_id = a.id
		GROUP BY a.id
		ORDER BY a.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*AlbumSummary
	for rows.Next() {
		a := &AlbumSummary{}
		if err := rows.Scan(&a.ID, &a.CollectionID, &a.Title, &a.Description, &a.CoverPath,
			&a.CreatedAt, &a.UpdatedAt, &a.ImageCount); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return results, nil
}

// CountImages returns the number of images in an album.
func (s *Store) CountImages(albumID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM images WHERE album_id = ?`, albumID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}
