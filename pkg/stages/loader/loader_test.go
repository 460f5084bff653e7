package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/user/photoinsight/pkg/datauri"
	"github.com/user/photoinsight/pkg/mocks"
	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// decodingRenderer decodes PNG for real so sources round-trip.
func decodingRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			return png.Decode(bytes.NewReader(data))
		},
	}
}

func newStage(fetcher ports.Fetcher, fs ports.FileSystem) *Stage {
	return NewStage(fetcher, fs, decodingRenderer(), mocks.NewLogger())
}

func TestStage_Execute_Sources(t *testing.T) {
	data := pngBytes(t, 8, 6)

	fs := mocks.NewFileSystem()
	fs.PutFile("/photos/a.png", data)

	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			if url != "https://cdn.example.com/a.png" {
				t.Errorf("unexpected url %q", url)
			}
			return data, nil
		},
	}

	stage := newStage(fetcher, fs)

	sources := map[string]string{
		"remote":     "https://cdn.example.com/a.png",
		"data uri":   datauri.Encode("image/png", data),
		"local":      "/photos/a.png",
		"file url":   "file:///photos/a.png",
		"whitespace": "  /photos/a.png\n",
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			result, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: src})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b := result.Image.Bounds()
			if b != image.Rect(0, 0, 8, 6) {
				t.Errorf("bounds = %v, want 8x6 at origin", b)
			}
		})
	}
}

func TestStage_Execute_Failures(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return nil, fetchErr
		},
	}
	fs := mocks.NewFileSystem()
	fs.PutFile("/notes.txt", []byte("hello, this is plain text"))
	fs.PutFile("/empty.png", nil)

	stage := newStage(fetcher, fs)

	tests := []struct {
		name   string
		source string
	}{
		{"empty source", ""},
		{"fetch error", "http://example.com/a.jpg"},
		{"missing file", "/nope.jpg"},
		{"not an image", "/notes.txt"},
		{"empty file", "/empty.png"},
		{"bad data uri", "data:image/png;base64,@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: tt.source})
			if !errors.Is(err, ErrLoadFailure) {
				t.Fatalf("expected ErrLoadFailure, got %v", err)
			}
			if errors.Is(err, ErrLoadTimeout) {
				t.Error("failure must not be reported as timeout")
			}
		})
	}

	_, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: "https://example.com/x.jpg"})
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
}

func TestStage_Execute_DecodeError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.PutFile("/a.png", pngBytes(t, 2, 2))
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			return nil, errors.New("corrupt")
		},
	}
	stage := NewStage(&mocks.Fetcher{}, fs, renderer, mocks.NewLogger())

	if _, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: "/a.png"}); !errors.Is(err, ErrLoadFailure) {
		t.Errorf("expected ErrLoadFailure, got %v", err)
	}
}

func TestStage_Execute_Timeout(t *testing.T) {
	var fetchCtx context.Context
	started := make(chan struct{})
	never := make(chan struct{})
	t.Cleanup(func() { close(never) })
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			fetchCtx = ctx
			close(started)
			<-never
			return nil, errors.New("resolved after the test")
		},
	}
	stage := newStage(fetcher, mocks.NewFileSystem())

	start := time.Now()
	_, err := stage.Execute(context.Background(), pipeline.LoadInput{
		Source:  "https://slow.example.com/a.jpg",
		Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrLoadTimeout) {
		t.Fatalf("expected ErrLoadTimeout, got %v", err)
	}
	if elapsed < 90*time.Millisecond || elapsed > time.Second {
		t.Errorf("timed out after %v, want about 100ms", elapsed)
	}

	<-started
	if fetchCtx.Err() == nil {
		t.Error("load context should be released after timeout")
	}
}

func TestStage_Execute_ContextReleasedOnSuccess(t *testing.T) {
	data := pngBytes(t, 4, 4)
	var fetchCtx context.Context
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			fetchCtx = ctx
			return data, nil
		},
	}
	stage := newStage(fetcher, mocks.NewFileSystem())

	if _, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: "https://example.com/a.png"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(fetchCtx.Err(), context.Canceled) {
		t.Errorf("expected context to be cancelled after success, got %v", fetchCtx.Err())
	}
}

func TestStage_Execute_FetcherHonoursDeadline(t *testing.T) {
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	stage := newStage(fetcher, mocks.NewFileSystem())

	_, err := stage.Execute(context.Background(), pipeline.LoadInput{
		Source:  "https://slow.example.com/a.jpg",
		Timeout: 20 * time.Millisecond,
	})
	if !errors.Is(err, ErrLoadTimeout) {
		t.Errorf("expected ErrLoadTimeout, got %v", err)
	}
}

func TestStage_Execute_ParentCancelled(t *testing.T) {
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	stage := newStage(fetcher, mocks.NewFileSystem())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.LoadInput{Source: "https://example.com/a.jpg"})
	if !errors.Is(err, ErrLoadFailure) {
		t.Errorf("expected ErrLoadFailure for a cancelled caller, got %v", err)
	}
}

func TestRemoteStage_RejectsLocalPaths(t *testing.T) {
	data := pngBytes(t, 4, 4)
	fetcher := &mocks.Fetcher{
		FetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return data, nil
		},
	}
	stage := NewRemoteStage(fetcher, decodingRenderer(), mocks.NewLogger())

	for _, src := range []string{"/etc/passwd", "file:///etc/passwd", "photos/a.png", "ftp://host/a.png"} {
		t.Run(src, func(t *testing.T) {
			_, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: src})
			if !errors.Is(err, ErrSourceNotAllowed) || !errors.Is(err, ErrLoadFailure) {
				t.Errorf("expected ErrSourceNotAllowed wrapped in ErrLoadFailure, got %v", err)
			}
		})
	}

	for _, src := range []string{"https://cdn.example.com/a.png", datauri.Encode("image/png", data)} {
		if _, err := stage.Execute(context.Background(), pipeline.LoadInput{Source: src}); err != nil {
			t.Errorf("Execute(%.30q) failed: %v", src, err)
		}
	}
}

func TestIsEmbeddedOrRemote(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://cdn.example.com/a.jpg", true},
		{"HTTP://cdn.example.com/a.jpg", true},
		{" data:image/png;base64,AAAA", true},
		{"/etc/passwd", false},
		{"file:///etc/passwd", false},
		{"a.jpg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsEmbeddedOrRemote(tt.source); got != tt.want {
			t.Errorf("IsEmbeddedOrRemote(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}
