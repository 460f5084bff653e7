// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/user/photoinsight/pkg/pipeline"
	"github.com/user/photoinsight/pkg/ports"
)

// Fetcher is a mock implementation of ports.Fetcher.
type Fetcher struct {
	FetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}
	return []byte{}, nil
}

var _ ports.Fetcher = (*Fetcher)(nil)

// ShareTarget is a mock implementation of ports.ShareTarget.
// Shared files are recorded in Shared.
type ShareTarget struct {
	CanShareFunc func(file ports.SharedFile) bool
	ShareFunc    func(ctx context.Context, file ports.SharedFile) error

	mu     sync.Mutex
	Shared []ports.SharedFile
}

func (m *ShareTarget) CanShare(file ports.SharedFile) bool {
	if m.CanShareFunc != nil {
		return m.CanShareFunc(file)
	}
	return true
}

func (m *ShareTarget) Share(ctx context.Context, file ports.SharedFile) error {
	m.mu.Lock()
	m.Shared = append(m.Shared, file)
	m.mu.Unlock()
	if m.ShareFunc != nil {
		return m.ShareFunc(ctx, file)
	}
	return nil
}

var _ ports.ShareTarget = (*ShareTarget)(nil)

// ExifReader is a mock implementation of ports.ExifReader.
type ExifReader struct {
	ReadFunc func(data []byte) (*pipeline.ExifSnapshot, error)
}

func (m *ExifReader) Read(data []byte) (*pipeline.ExifSnapshot, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(data)
	}
	return nil, nil
}

var _ ports.ExifReader = (*ExifReader)(nil)
