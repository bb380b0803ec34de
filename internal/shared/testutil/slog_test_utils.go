package testutil

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"bacicli/internal/infrastructure"
)

// LogRecord is one captured log line. TraceID and Stage are read from the
// context the line was logged with, the way the production handler does.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
	TraceID string
	Stage   string
}

type recordStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler keeps every record in memory. Handlers derived with
// WithAttrs or WithGroup share the same store.
type BufferedSlogHandler struct {
	store *recordStore
	attrs []slog.Attr
	group string
	t     *testing.T
}

func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{store: &recordStore{}, t: t}
}

// NewTestLogger returns a logger writing into a fresh buffered handler
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	handler := NewBufferedSlogHandler(t)
	return slog.New(handler), handler
}

func (h *BufferedSlogHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		rec.Attrs[key] = a.Value.Any()
		return true
	})
	if ctx != nil {
		rec.TraceID = infrastructure.GetTraceID(ctx)
		rec.Stage, _ = ctx.Value(infrastructure.StageContextKey).(string)
	}

	h.store.mu.Lock()
	h.store.records = append(h.store.records, rec)
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, rec.Attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedSlogHandler{store: h.store, attrs: slices.Concat(h.attrs, attrs), group: h.group, t: h.t}
}

func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	if h.group != "" {
		name = h.group + "." + name
	}
	return &BufferedSlogHandler{store: h.store, attrs: h.attrs, group: name, t: h.t}
}

// GetRecords returns a copy of everything captured so far
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return slices.Clone(h.store.records)
}

func (h *BufferedSlogHandler) GetRecordsByLevel(level slog.Level) []LogRecord {
	return h.filter(func(r LogRecord) bool { return r.Level == level })
}

// GetRecordsByStage returns the records logged under a pipeline stage
func (h *BufferedSlogHandler) GetRecordsByStage(stage string) []LogRecord {
	return h.filter(func(r LogRecord) bool { return r.Stage == stage })
}

func (h *BufferedSlogHandler) filter(keep func(LogRecord) bool) []LogRecord {
	var out []LogRecord
	for _, r := range h.GetRecords() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage reports whether any record's message contains message
func (h *BufferedSlogHandler) ContainsMessage(message string) bool {
	return len(h.filter(func(r LogRecord) bool { return strings.Contains(r.Message, message) })) > 0
}

// ContainsAttr reports whether any record has key set to value
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	return len(h.filter(func(r LogRecord) bool {
		v, ok := r.Attrs[key]
		return ok && v == value
	})) > 0
}

func (h *BufferedSlogHandler) Clear() {
	h.store.mu.Lock()
	h.store.records = nil
	h.store.mu.Unlock()
}

func (h *BufferedSlogHandler) Count() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.records)
}

// AssertLogContains fails t unless a record at level contains message
func AssertLogContains(t *testing.T, handler *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()
	records := handler.GetRecordsByLevel(level)
	for _, r := range records {
		if strings.Contains(r.Message, message) {
			return
		}
	}
	t.Errorf("no %s log containing %q", level, message)
	for _, r := range records {
		t.Logf("  %s: %s", level, r.Message)
	}
}

// AssertLogAttr fails t unless some record has key set to expected
func AssertLogAttr(t *testing.T, handler *BufferedSlogHandler, key string, expected any) {
	t.Helper()
	if handler.ContainsAttr(key, expected) {
		return
	}
	t.Errorf("no log with %s=%v", key, expected)
	for _, r := range handler.GetRecords() {
		t.Logf("  %s: %v", r.Message, r.Attrs)
	}
}

// AssertNoErrors fails t for every error-level record
func AssertNoErrors(t *testing.T, handler *BufferedSlogHandler) {
	t.Helper()
	for _, r := range handler.GetRecordsByLevel(slog.LevelError) {
		t.Errorf("unexpected error log %q: %v", r.Message, r.Attrs)
	}
}
