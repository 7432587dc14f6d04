package importer

// Phase identifies which stage of a run a progress report belongs to.
type Phase string

const (
	// PhaseAlbums covers listing extraction and per-album advancement.
	PhaseAlbums Phase = "albums"
	// PhaseImages covers per-album image list extraction.
	PhaseImages Phase = "images"
	// PhaseDownload covers individual image downloads within an album.
	PhaseDownload Phase = "download"
)

// ProgressFunc receives synchronous progress checkpoints during a run.
// current and total are phase-relative; total may be zero when unknown.
type ProgressFunc func(phase Phase, current, total int, message string)
