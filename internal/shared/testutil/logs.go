package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log call with its attributes flattened,
// including those added through Logger.With.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory. Handlers
// derived with WithAttrs share the same store.
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
	group string
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
	t       testing.TB
}

// NewLogCapture returns a logger that records into the returned capture.
// Records are echoed through t.Logf so failing tests show them.
func NewLogCapture(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{store: &logStore{t: t}}
	return slog.New(c), c
}

// Enabled implements slog.Handler
func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for _, a := range c.attrs {
		attrs[c.key(a.Key)] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[c.key(a.Key)] = a.Value.Any()
		return true
	})

	c.store.mu.Lock()
	c.store.records = append(c.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.store.mu.Unlock()

	if c.store.t != nil {
		c.store.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *c
	out.attrs = append(append([]slog.Attr{}, c.attrs...), attrs...)
	return &out
}

// WithGroup implements slog.Handler. Group names prefix attribute keys
// with a dot.
func (c *LogCapture) WithGroup(name string) slog.Handler {
	out := *c
	out.group = c.key(name)
	return &out
}

func (c *LogCapture) key(k string) string {
	if c.group == "" {
		return k
	}
	return c.group + "." + k
}

// Records returns a copy of everything captured so far.
func (c *LogCapture) Records() []LogRecord {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	out := make([]LogRecord, len(c.store.records))
	copy(out, c.store.records)
	return out
}

// Find returns the first record at level whose message contains msg.
func (c *LogCapture) Find(level slog.Level, msg string) (LogRecord, bool) {
	for _, r := range c.Records() {
		if r.Level == level && strings.Contains(r.Message, msg) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// Count returns the number of records at level.
func (c *LogCapture) Count(level slog.Level) int {
	n := 0
	for _, r := range c.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

// Reset drops the captured records.
func (c *LogCapture) Reset() {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.records = nil
}
