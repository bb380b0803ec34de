package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/infrastructure"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("trade files discovered", slog.String("pattern", "BACI_*.csv"))
		logger.Error("code table missing", slog.Int("status", 404))

		require.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("discovered"))
		assert.True(t, handler.ContainsAttr("pattern", "BACI_*.csv"))
		assert.False(t, handler.ContainsAttr("pattern", "other"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the store", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "normalizer").Info("merged", slog.Int("rows", 3))
		logger.WithGroup("graph").WithGroup("edges").Info("built", slog.Int("count", 2))

		require.Equal(t, 2, handler.Count())
		AssertLogAttr(t, handler, "component", "normalizer")
		AssertLogAttr(t, handler, "rows", int64(3))
		AssertLogAttr(t, handler, "graph.edges.count", int64(2))
	})

	t.Run("context values", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		ctx := infrastructure.WithStage(infrastructure.WithTraceID(context.Background(), "run-1"), "slice")
		logger.InfoContext(ctx, "views built")
		logger.Info("no context")

		records := handler.GetRecordsByStage("slice")
		require.Len(t, records, 1)
		assert.Equal(t, "views built", records[0].Message)
		assert.Equal(t, "run-1", records[0].TraceID)
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		logger.Info("two")

		handler.Clear()
		assert.Zero(t, handler.Count())
		assert.Empty(t, handler.GetRecords())
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Warn("retrying write", slog.Int("retry", 3))

		AssertLogContains(t, handler, slog.LevelWarn, "retrying")
		AssertLogAttr(t, handler, "retry", int64(3))
		AssertNoErrors(t, handler)
	})
}
