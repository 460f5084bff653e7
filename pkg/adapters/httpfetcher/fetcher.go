// Package httpfetcher implements ports.Fetcher over net/http.
package httpfetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/photoinsight/pkg/ports"
)

const (
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBytes caps the downloaded body.
	DefaultMaxBytes int64 = 64 << 20
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "photoinsight/1.0"

	maxAttempts  = 3
	retryBackoff = 200 * time.Millisecond
	errBodyLimit = 256
)

// ErrTooLarge is returned when the response body exceeds MaxBytes.
var ErrTooLarge = errors.New("response body too large")

// Config holds fetcher settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// Fetcher downloads photos over HTTP(S).
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// New creates a Fetcher. Zero config values fall back to defaults.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
	}
}

// Fetch implements ports.Fetcher.
// Network errors and 404 responses are retried a few times; a freshly
// uploaded object is sometimes not visible on the first request.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		data, retry, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, resp.StatusCode == http.StatusNotFound,
			fmt.Errorf("photo http status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, false, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, false, nil
}

var _ ports.Fetcher = (*Fetcher)(nil)
