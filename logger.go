package treekv

import (
	"context"
	"log/slog"
	"os"

	"github.com/treekv/treekv/model"
)

// Logger wraps slog.Logger with treekv-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithToken adds a token field to the logger.
func (l *Logger) WithToken(token model.Token) *Logger {
	return &Logger{
		Logger: l.Logger.With("token", uint64(token)),
	}
}

// WithAddress adds an address field to the logger.
func (l *Logger) WithAddress(addr model.Address) *Logger {
	return &Logger{
		Logger: l.Logger.With("address", uint64(addr)),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, token model.Token, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"token", uint64(token),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"token", uint64(token),
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, token model.Token, err error) {
	if err != nil {
		l.DebugContext(ctx, "search missed",
			"token", uint64(token),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"token", uint64(token),
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, token model.Token, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"token", uint64(token),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"token", uint64(token),
		)
	}
}

// LogSnapshot logs a snapshot export.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogRestore logs a snapshot restore.
func (l *Logger) LogRestore(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "restore completed",
			"name", name,
		)
	}
}
