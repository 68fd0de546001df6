package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogger captures JSON log output so tests can assert on it
type TestLogger struct {
	mu      sync.Mutex
	entries []TestLogEntry
	buffer  bytes.Buffer
}

// TestLogEntry represents a captured log entry
type TestLogEntry struct {
	Level     string
	Message   string
	Component string
	Operation string
	Error     string
	Attrs     map[string]interface{}
}

// NewTestLogger creates a new test logger that captures log output
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// Write implements io.Writer so the logger can back a Factory
func (tl *TestLogger) Write(p []byte) (int, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buffer.Write(p)
}

// GetLogger returns a debug-level JSON logger writing to this test logger
func (tl *TestLogger) GetLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(tl, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// GetEntries returns all captured log entries
func (tl *TestLogger) GetEntries() []TestLogEntry {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.parseBuffer()

	entries := make([]TestLogEntry, len(tl.entries))
	copy(entries, tl.entries)
	return entries
}

// GetEntriesWithMessage returns log entries containing the specified message
func (tl *TestLogger) GetEntriesWithMessage(message string) []TestLogEntry {
	var filtered []TestLogEntry
	for _, entry := range tl.GetEntries() {
		if strings.Contains(entry.Message, message) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// parseBuffer moves complete JSON lines from the buffer into entries
func (tl *TestLogger) parseBuffer() {
	if tl.buffer.Len() == 0 {
		return
	}

	lines := strings.Split(strings.TrimSpace(tl.buffer.String()), "\n")
	tl.buffer.Reset()

	for _, line := range lines {
		if line == "" {
			continue
		}

		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}

		entry := TestLogEntry{Attrs: make(map[string]interface{})}
		entry.Level, _ = raw["level"].(string)
		entry.Message, _ = raw["msg"].(string)
		entry.Component, _ = raw["component"].(string)
		entry.Operation, _ = raw["operation"].(string)
		entry.Error, _ = raw["error"].(string)

		for key, value := range raw {
			switch key {
			case "time", "level", "msg", "component", "operation", "error":
			default:
				entry.Attrs[key] = value
			}
		}

		tl.entries = append(tl.entries, entry)
	}
}

// Clear resets all captured entries and buffer
func (tl *TestLogger) Clear() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.entries = tl.entries[:0]
	tl.buffer.Reset()
}

// AssertLogged verifies that a log entry with the specified level and message was captured
func (tl *TestLogger) AssertLogged(t *testing.T, level, message string) {
	t.Helper()

	entries := tl.GetEntries()
	for _, entry := range entries {
		if strings.EqualFold(entry.Level, level) && strings.Contains(entry.Message, message) {
			return
		}
	}

	t.Errorf("Expected log entry with level=%s message=%s not found. Captured entries:", level, message)
	for i, entry := range entries {
		t.Errorf("  [%d] %s: %s", i, entry.Level, entry.Message)
	}
}

// AssertNotLogged verifies that no log entry with the specified level and message was captured
func (tl *TestLogger) AssertNotLogged(t *testing.T, level, message string) {
	t.Helper()

	for _, entry := range tl.GetEntries() {
		if strings.EqualFold(entry.Level, level) && strings.Contains(entry.Message, message) {
			t.Errorf("Unexpected log entry found with level=%s message=%s", level, message)
			return
		}
	}
}

// CreateTestFactory returns a factory whose output is captured by a TestLogger
func CreateTestFactory(config *Config) (*Factory, *TestLogger, error) {
	if config == nil {
		config = DefaultConfig()
		config.Level = LogLevelDebug
	}
	config.Format = LogFormatJSON

	tl := NewTestLogger()
	factory, err := NewFactoryWithWriter(config, tl)
	if err != nil {
		return nil, nil, err
	}
	return factory, tl, nil
}
