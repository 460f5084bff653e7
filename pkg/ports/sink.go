package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// Renders and compressions hand their intermediate artifacts to it so a
// failing card or an oversized upload can be inspected afterwards.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveLayoutJSON saves the computed share-card layout as JSON.
	SaveLayoutJSON(data []byte) error

	// SaveCard saves the rendered share card before JPEG encoding.
	SaveCard(img image.Image) error

	// SaveCompressionAttempt saves one re-encode attempt of the compressor.
	SaveCompressionAttempt(attempt, quality int, data []byte) error
}
