// Package compress implements the size-targeted image compression stage.
package compress

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

// Compression parameters. Qualities are JPEG percentages.
const (
	InitialQuality = 85
	QualityStep    = 15
	QualityFloor   = 50

	// LargeFileBytes selects the smaller dimension cap.
	LargeFileBytes = 5 * 1024 * 1024
	LargeFileCap   = 2048
	DefaultCap     = 2560

	outputMIMEType = "image/jpeg"
)

// Stage re-encodes uploads that exceed a byte budget.
type Stage struct {
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
	now      func() time.Time
}

// NewStage creates a new compression stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		sink:     sink,
		logger:   logger.WithComponent("compress"),
		now:      time.Now,
	}
}

// WithClock replaces the clock that stamps compressed files.
func (s *Stage) WithClock(now func() time.Time) *Stage {
	s.now = now
	return s
}

// Execute compresses req.File toward req.TargetMB.
// The error is always nil: files already within budget, non-images and
// undecodable data come back unchanged.
func (s *Stage) Execute(ctx context.Context, req pipeline.CompressionRequest) (pipeline.CompressionResult, error) {
	file := req.File
	unchanged := pipeline.CompressionResult{File: file, Unchanged: true}

	targetMB := req.TargetMB
	if targetMB <= 0 {
		targetMB = pipeline.DefaultTargetMB
	}
	target := int64(targetMB * 1024 * 1024)

	if file.Size() <= target {
		return unchanged, nil
	}

	mime := file.MIMEType
	if mime == "" {
		mime = mimetype.Detect(file.Data).String()
	}
	if !strings.HasPrefix(mime, "image/") {
		s.logger.Debug("Skipping %s: not an image (%s)", file.Name, mime)
		return unchanged, nil
	}

	img, err := s.renderer.DecodeImage(file.Data, ports.FormatAuto)
	if err != nil {
		s.logger.Warn("Could not decode %s, keeping original: %s", file.Name, err.Error())
		return unchanged, nil
	}

	limit := DefaultCap
	if file.Size() > LargeFileBytes {
		limit = LargeFileCap
	}
	b := img.Bounds()
	width, height := ScaleToCap(b.Dx(), b.Dy(), limit)
	if width != b.Dx() || height != b.Dy() {
		s.logger.Debug("Resizing %dx%d to %dx%d", b.Dx(), b.Dy(), width, height)
		img = s.renderer.ResizeImage(img, width, height)
	}

	quality := InitialQuality
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return unchanged, nil
		}

		data, err := s.renderer.EncodeImage(img, ports.FormatJPEG, quality)
		if err != nil {
			s.logger.Warn("Could not encode %s, keeping original: %s", file.Name, err.Error())
			return unchanged, nil
		}
		s.logger.Debug("Attempt %d at quality %d: %d bytes", attempt, quality, len(data))
		if s.sink.Enabled() {
			s.sink.SaveCompressionAttempt(attempt, quality, data)
		}

		size := int64(len(data))
		if size <= target || quality <= QualityFloor {
			result := pipeline.CompressionResult{
				File: pipeline.ImageFile{
					Name:     jpegName(file.Name),
					MIMEType: outputMIMEType,
					Data:     data,
					ModTime:  s.now(),
				},
				Quality:  quality,
				Attempts: attempt,
				Degraded: size > target,
				Width:    width,
				Height:   height,
			}
			if result.Degraded {
				s.logger.Warn("%s is still %d bytes at the quality floor", file.Name, size)
			}
			return result, nil
		}

		quality -= QualityStep
		if quality < QualityFloor {
			quality = QualityFloor
		}
	}
}

// ScaleToCap scales width and height so the longer edge equals limit,
// preserving the aspect ratio. Images within the limit are unchanged.
func ScaleToCap(width, height, limit int) (int, int) {
	if width <= limit && height <= limit {
		return width, height
	}
	if width >= height {
		h := int(math.Round(float64(height) * float64(limit) / float64(width)))
		return limit, max(h, 1)
	}
	w := int(math.Round(float64(width) * float64(limit) / float64(height)))
	return max(w, 1), limit
}

func jpegName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
