package fastslic

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Logger wraps slog.Logger with fastslic-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRunID tags the logger with a fresh correlation id for one Iterate
// call, so every log line emitted during that run can be grepped together.
func (l *Logger) WithRunID() (*Logger, string) {
	id := uuid.NewString()
	return &Logger{Logger: l.Logger.With("run_id", id)}, id
}

// WithDimensions adds image height/width fields to the logger.
func (l *Logger) WithDimensions(h, w int) *Logger {
	return &Logger{
		Logger: l.Logger.With("height", h, "width", w),
	}
}

// WithClusterCount adds a cluster count (K) field to the logger.
func (l *Logger) WithClusterCount(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithIteration adds the current iteration index to the logger.
func (l *Logger) WithIteration(iter int) *Logger {
	return &Logger{
		Logger: l.Logger.With("iteration", iter),
	}
}

// LogIterate logs one full Iterate call.
func (l *Logger) LogIterate(ctx context.Context, iters int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "iterate failed",
			"iterations", iters,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "iterate completed",
			"iterations", iters,
		)
	}
}

// LogAssignPass logs one assignment+update pass within the driver loop.
func (l *Logger) LogAssignPass(ctx context.Context, changed int, elapsedNanos int64) {
	l.DebugContext(ctx, "assignment pass completed",
		"changed_pixels", changed,
		"elapsed", elapsedNanos,
	)
}

// LogConnectivity logs a GetConnectivity call.
func (l *Logger) LogConnectivity(ctx context.Context, k, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "connectivity build failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "connectivity built",
			"k", k,
			"edges", edges,
		)
	}
}

// LogKNN logs a KNNConnectivity call.
func (l *Logger) LogKNN(ctx context.Context, k, neighbors int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "knn connectivity failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "knn connectivity built",
			"k", k,
			"neighbors", neighbors,
		)
	}
}

// LogSnapshot logs a snapshot export/import, reporting size in
// human-readable form.
func (l *Logger) LogSnapshot(ctx context.Context, op string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"size", humanize.Bytes(uint64(bytes)),
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"size", humanize.Bytes(uint64(bytes)),
		)
	}
}
