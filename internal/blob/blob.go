// Package blob abstracts binary object storage for imported images.
package blob

import "errors"

// ErrInvalidKey indicates a key that escapes the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is the storage surface the importer writes image binaries to.
// Keys are slash-separated paths relative to the store's root.
type Store interface {
	Exists(key string) (bool, error)
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	Size(key string) (int64, error)
	MakeDirectory(key string) error
}
