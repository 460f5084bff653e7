// Package loader implements the photo loading stage.
package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

var (
	// ErrLoadTimeout is returned when a load does not finish within its timeout.
	ErrLoadTimeout = errors.New("photo load timed out")
	// ErrLoadFailure wraps every fetch or decode failure.
	ErrLoadFailure = errors.New("photo load failed")
	// ErrSourceNotAllowed is wrapped by ErrLoadFailure when a local path is
	// given to a stage that only loads remote and embedded photos.
	ErrSourceNotAllowed = errors.New("source must be an http(s) URL or a data URI")
)

// Stage resolves a photo reference into a drawable bitmap.
type Stage struct {
	fetcher    ports.Fetcher
	fs         ports.FileSystem
	renderer   ports.Renderer
	logger     ports.Logger
	allowLocal bool
}

// NewStage creates a new loader stage that also reads local paths through fs.
func NewStage(fetcher ports.Fetcher, fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		fetcher:    fetcher,
		fs:         fs,
		renderer:   renderer,
		logger:     logger.WithComponent("loader"),
		allowLocal: fs != nil,
	}
}

// NewRemoteStage creates a loader stage that accepts only http(s) URLs and
// data URIs. Use it wherever the source comes from an untrusted client.
func NewRemoteStage(fetcher ports.Fetcher, renderer ports.Renderer, logger ports.Logger) *Stage {
	return NewStage(fetcher, nil, renderer, logger)
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsEmbeddedOrRemote reports whether source can be loaded without touching
// the local filesystem.
func IsEmbeddedOrRemote(source string) bool {
	return IsRemote(source) || datauri.IsDataURI(strings.TrimSpace(source))
}

type outcome struct {
	img image.Image
	err error
}

// Execute loads and decodes input.Source within input.Timeout.
// The returned image is a zero-origin NRGBA copy owned by the caller.
func (s *Stage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	timeout := input.Timeout
	if timeout <= 0 {
		timeout = pipeline.DefaultLoadTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Debug("Loading photo from %s (timeout %d ms)", describeSource(input.Source), timeout.Milliseconds())
	start := time.Now()

	done := make(chan outcome, 1)
	go func() {
		img, err := s.load(ctx, input.Source)
		done <- outcome{img: img, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			if errors.Is(o.err, context.DeadlineExceeded) {
				return pipeline.LoadResult{}, ErrLoadTimeout
			}
			return pipeline.LoadResult{}, fmt.Errorf("%w: %w", ErrLoadFailure, o.err)
		}
		b := o.img.Bounds()
		s.logger.Debug("Photo loaded: %dx%d in %d ms", b.Dx(), b.Dy(), time.Since(start).Milliseconds())
		return pipeline.LoadResult{Image: o.img}, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.logger.Debug("Photo load timed out after %d ms", timeout.Milliseconds())
			return pipeline.LoadResult{}, ErrLoadTimeout
		}
		return pipeline.LoadResult{}, fmt.Errorf("%w: %w", ErrLoadFailure, ctx.Err())
	}
}

func (s *Stage) load(ctx context.Context, source string) (image.Image, error) {
	data, err := s.read(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("not an image: %s", mime.String())
	}

	img, err := s.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return imaging.Clone(img), nil
}

func (s *Stage) read(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return nil, errors.New("empty source")
	case datauri.IsDataURI(source):
		p, err := datauri.Decode(source)
		if err != nil {
			return nil, err
		}
		return p.Data, nil
	case IsRemote(source):
		data, err := s.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch photo: %w", err)
		}
		return data, nil
	case !s.allowLocal:
		return nil, ErrSourceNotAllowed
	default:
		data, err := s.fs.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return nil, fmt.Errorf("read photo: %w", err)
		}
		return data, nil
	}
}

// describeSource shortens data URIs for logging.
func describeSource(source string) string {
	if datauri.IsDataURI(source) {
		if i := strings.IndexByte(source, ','); i > 0 {
			return source[:i] + ",..."
		}
	}
	return source
}
