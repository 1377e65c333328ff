package logger

import (
	"log/slog"
	"time"
)

// LogSystem logs lifecycle events such as startup and shutdown.
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

// LogError logs a failure with its cause attached.
func LogError(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}, attrs...)...)
}

// LogStorage records a storage-level operation with its duration.
// Successes are debug-level chatter; failures are errors.
func LogStorage(op string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("op", op),
		slog.Duration("took", duration),
	}
	if err != nil {
		slog.Error("Storage operation failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Debug("Storage operation completed", attrs...)
}
