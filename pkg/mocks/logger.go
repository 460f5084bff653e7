package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/photoinsight/pkg/ports"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Message   string // the untranslated key, formatted with its args
}

// Logger is a mock implementation of ports.Logger that records every call.
// Loggers derived with WithComponent share the parent's record.
type Logger struct {
	component string
	record    *logRecord
}

type logRecord struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a new recording Logger.
func NewLogger() *Logger {
	return &Logger{record: &logRecord{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.add(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.add(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.add(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.add(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, record: m.record}
}

func (m *Logger) add(level ports.LogLevel, msg string, args []interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	m.record.mu.Lock()
	defer m.record.mu.Unlock()
	m.record.entries = append(m.record.entries, LogEntry{Level: level, Component: m.component, Message: msg})
}

// Entries returns a copy of all recorded entries.
func (m *Logger) Entries() []LogEntry {
	m.record.mu.Lock()
	defer m.record.mu.Unlock()
	out := make([]LogEntry, len(m.record.entries))
	copy(out, m.record.entries)
	return out
}

// Count returns how many entries were recorded at level.
func (m *Logger) Count(level ports.LogLevel) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Has reports whether a message containing substr was recorded at level.
func (m *Logger) Has(level ports.LogLevel, substr string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

var _ ports.Logger = (*Logger)(nil)
