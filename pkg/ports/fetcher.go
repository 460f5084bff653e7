package ports

import (
	"context"
)

// Fetcher retrieves the raw bytes behind a remote photo reference.
type Fetcher interface {
	// Fetch downloads the resource at url.
	// Implementations must abort when ctx is done.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SharedFile is a single file handed to a share surface.
type SharedFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ShareTarget abstracts a native share surface such as a mobile share sheet
// or a "save to gallery" destination.
type ShareTarget interface {
	// CanShare reports whether the target accepts the file.
	CanShare(file SharedFile) bool

	// Share hands the file to the target.
	Share(ctx context.Context, file SharedFile) error
}
