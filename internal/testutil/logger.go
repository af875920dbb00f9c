package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogCapture records JSON log output at debug level so tests can assert on
// what was logged
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogCapture creates an empty capture
func NewLogCapture() *LogCapture {
	return &LogCapture{}
}

// Logger returns a logger writing into the capture
func (c *LogCapture) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Write implements io.Writer
func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// Entries returns every record logged so far
func (c *LogCapture) Entries() []map[string]any {
	c.mu.Lock()
	data := c.buf.String()
	c.mu.Unlock()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Find returns the most recent record with the given message
func (c *LogCapture) Find(msg string) (map[string]any, bool) {
	entries := c.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i]["msg"] == msg {
			return entries[i], true
		}
	}
	return nil, false
}
