package mocks

import (
	"image"
	"sync"

	"github.com/user/photoinsight/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	LayoutJSON []byte
	Card       image.Image
	Attempts   map[int][]byte
	Qualities  map[int]int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:   enabled,
		Attempts:  make(map[int][]byte),
		Qualities: make(map[int]int),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveLayoutJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LayoutJSON = data
	return nil
}

func (m *DebugSink) SaveCard(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Card = img
	return nil
}

func (m *DebugSink) SaveCompressionAttempt(attempt, quality int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts[attempt] = data
	m.Qualities[attempt] = quality
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                   { return false }
func (m *NullSink) SaveLayoutJSON(data []byte) error                { return nil }
func (m *NullSink) SaveCard(img image.Image) error                  { return nil }
func (m *NullSink) SaveCompressionAttempt(a, q int, d []byte) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
