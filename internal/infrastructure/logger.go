package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bacicli/internal/config"
	"bacicli/pkg/contracts"
)

var (
	loggerMu   sync.Mutex
	rootLogger *slog.Logger
	logFile    *os.File
)

type contextKey string

const (
	// TraceIDContextKey carries the id that ties log lines of one request or
	// report run together
	TraceIDContextKey contextKey = "trace_id"
	// StageContextKey carries the pipeline stage a log line was written in
	StageContextKey contextKey = "stage"
)

// InitializeLogger builds the process logger from cfg and installs it as the
// slog default. Only the first call has any effect; later calls return the
// logger built by the first.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if rootLogger != nil {
		return rootLogger, nil
	}

	out, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.New(&contextHandler{Handler: newHandler(out, cfg)}).With(
		slog.String("service", "bacicli"),
		slog.String("version", contracts.Version),
	)

	rootLogger = logger
	logFile = file
	slog.SetDefault(logger)
	return logger, nil
}

// GetLogger returns the process logger, or the slog default before
// InitializeLogger ran
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if rootLogger == nil {
		return slog.Default()
	}
	return rootLogger
}

func newHandler(out io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       parseLogLevel(cfg.Level),
		ReplaceAttr: shortSource,
	}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

// logOutput resolves the console|file|both setting. The returned file, if
// any, is owned by the logger and closed by CloseLogFile.
func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	mode := strings.ToLower(cfg.Output)
	if mode != "file" && mode != "both" {
		return os.Stdout, nil, nil
	}

	file, err := openLogFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if mode == "both" {
		return io.MultiWriter(os.Stdout, file), file, nil
	}
	return file, file, nil
}

// shortSource trims the source file to its package directory and name
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
		dir := filepath.Base(filepath.Dir(src.File))
		src.File = dir + "/" + filepath.Base(src.File)
	}
	return a
}

// contextHandler copies the trace id and pipeline stage found in the context
// onto every record
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	if stage, ok := ctx.Value(StageContextKey).(string); ok && stage != "" {
		r.AddAttrs(slog.String("stage", stage))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

// WithStage tags log lines written under ctx with a pipeline stage
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageContextKey, stage)
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting forgets the process logger so a test can build a new one
func ResetLoggerForTesting() {
	CloseLogFile()
	loggerMu.Lock()
	rootLogger = nil
	loggerMu.Unlock()
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
