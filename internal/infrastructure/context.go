package infrastructure

import (
	"context"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
)

// NewTraceID returns a random 32 hex digit id, the same shape as an OTel
// trace id, for runs that have no span to borrow one from
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ContextWithTraceID stores a fresh trace id in ctx
func ContextWithTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// EnsureTraceID keeps an existing trace id and adds one otherwise
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return ContextWithTraceID(ctx)
}

// ContextWithSpanTrace makes the active span's trace id the log trace id so
// log lines and spans of one report run correlate
func ContextWithSpanTrace(ctx context.Context) context.Context {
	if id := TraceIDFromContext(ctx); id != "" {
		return WithTraceID(ctx, id)
	}
	return EnsureTraceID(ctx)
}

func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithError adds the error text under "error"; a nil err leaves logger as is
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
