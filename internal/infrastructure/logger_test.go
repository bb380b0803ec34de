package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/config"
)

// readLastEntry parses the final JSON line of a log file
func readLastEntry(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "report.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.FileExists(t, logFile)

	logger.Info("trade files discovered", "count", 29)
	require.NoError(t, CloseLogFile())

	entry := readLastEntry(t, logFile)
	assert.Equal(t, "trade files discovered", entry["msg"])
	assert.Equal(t, float64(29), entry["count"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Same(t, logger, GetLogger())
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NoFileExists(t, filepath.Join(dir, "b.log"))
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	_, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: logFile})
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "report-run-123")
	GetLogger().InfoContext(ctx, "normalizing records")
	require.NoError(t, CloseLogFile())

	entry := readLastEntry(t, logFile)
	assert.Equal(t, "report-run-123", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		want     slog.Level
		logDebug bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, false},
		{"WARNING", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))

			ResetLoggerForTesting()
			defer ResetLoggerForTesting()

			logFile := filepath.Join(t.TempDir(), "test.log")
			logger, err := InitializeLogger(config.LoggingConfig{Level: tt.level, Output: "file", FilePath: logFile})
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Error("error line")
			require.NoError(t, CloseLogFile())

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			assert.Equal(t, tt.logDebug, strings.Contains(string(content), "debug line"))
			assert.Contains(t, string(content), "error line")
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background())
	traceID := GetTraceID(ctx)
	require.NotEmpty(t, traceID)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace id is kept")
	assert.NotEmpty(t, GetTraceID(EnsureTraceID(context.Background())))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	decode := func() map[string]interface{} {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		buf.Reset()
		return entry
	}

	WithComponent(logger, "normalizer").Info("merged")
	assert.Equal(t, "normalizer", decode()["component"])

	WithError(logger, os.ErrNotExist).Info("missing code table")
	assert.Contains(t, decode()["error"], "file does not exist")

	assert.Same(t, logger, WithError(logger, nil))
}

func TestStageAndServiceAttributes(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: logFile})
	require.NoError(t, err)

	ctx := WithStage(WithTraceID(context.Background(), "run-7"), "normalize")
	GetLogger().InfoContext(ctx, "executing stage")
	require.NoError(t, CloseLogFile())

	entry := readLastEntry(t, logFile)
	assert.Equal(t, "normalize", entry["stage"])
	assert.Equal(t, "run-7", entry["trace_id"])
	assert.Equal(t, "bacicli", entry["service"])
	assert.NotEmpty(t, entry["version"])

	source, ok := entry["source"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "infrastructure/logger_test.go", source["file"])
}

func TestTextFormat(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: logFile})
	require.NoError(t, err)

	GetLogger().InfoContext(WithStage(context.Background(), "load"), "trade files discovered", "count", 29)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	line := string(content)
	assert.Contains(t, line, `msg="trade files discovered"`)
	assert.Contains(t, line, "count=29")
	assert.Contains(t, line, "stage=load")
	assert.NotContains(t, line, "{")
}
