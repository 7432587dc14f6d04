package importer

import "fmt"

// Stats accumulates the outcome of one import run. A run always returns a
// complete Stats, including after partial failure or cancellation.
type Stats struct {
	TotalAlbums    int
	ImportedAlbums int
	SkippedAlbums  int
	ImportedImages int
	SkippedImages  int
	Errors         []string
}

// ErrorCount returns the number of recorded item-level errors.
func (s *Stats) ErrorCount() int { return len(s.Errors) }

// Summary renders a one-line digest for CLI output.
func (s *Stats) Summary() string {
	return fmt.Sprintf("albums: %d imported, %d skipped of %d; images: %d imported, %d skipped; errors: %d",
		s.ImportedAlbums, s.SkippedAlbums, s.TotalAlbums,
		s.ImportedImages, s.SkippedImages, len(s.Errors))
}
