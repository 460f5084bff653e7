// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/photoinsight/pkg/ports"
)

// Sink saves debug output to files under a base directory:
//
//	layout.json
//	card.png
//	compress/attempt-01-q85.jpg ...
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveLayoutJSON saves the card layout as JSON.
func (s *Sink) SaveLayoutJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "layout.json")
	return s.fs.WriteFile(path, data)
}

// SaveCard saves the rendered card losslessly.
func (s *Sink) SaveCard(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	path := filepath.Join(s.baseDir, "card.png")
	return s.fs.WriteFile(path, data)
}

// SaveCompressionAttempt saves the bytes of one compression attempt.
func (s *Sink) SaveCompressionAttempt(attempt, quality int, data []byte) error {
	dir := filepath.Join(s.baseDir, "compress")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("attempt-%02d-q%d.jpg", attempt, quality))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
