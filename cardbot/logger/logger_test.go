package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedHandler() (*CustomHandler, *bytes.Buffer) {
	h := NewHandler()
	buf := new(bytes.Buffer)
	h.out = buf
	return h, buf
}

func withDefaultLogger(t *testing.T, h *CustomHandler) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestHandlerOutput(t *testing.T) {
	h, buf := newBufferedHandler()
	log := slog.New(h)

	log.Info("Card drawn",
		slog.String("type", "cmd"),
		slog.String("rarity", "divine"))

	out := buf.String()
	assert.Contains(t, out, "[GDCards]")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[CMD]")
	assert.Contains(t, out, "Card drawn")
	assert.Contains(t, out, "rarity=divine")
	// The type attr routes the log line, it is not printed as a field.
	assert.NotContains(t, out, "type=cmd")
}

func TestHandlerDefaultsToSystemType(t *testing.T) {
	h, buf := newBufferedHandler()
	slog.New(h).Info("plain message")

	assert.Contains(t, buf.String(), "[SYS]")
}

func TestHandlerLevel(t *testing.T) {
	h, buf := newBufferedHandler()
	log := slog.New(h)

	// Info is the default floor, debug records are dropped.
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	h.SetLevel(slog.LevelDebug)
	require.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	h.SetLevel(slog.LevelError)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestHandlerLevelSharedWithDerived(t *testing.T) {
	h, _ := newBufferedHandler()
	derived := h.WithAttrs([]slog.Attr{slog.String("component", "api")})

	h.SetLevel(slog.LevelError)
	assert.False(t, derived.Enabled(context.Background(), slog.LevelInfo))
}

func TestLogSystem(t *testing.T) {
	h, buf := newBufferedHandler()
	withDefaultLogger(t, h)

	LogSystem("Service running", slog.String("addr", ":8080"))

	out := buf.String()
	assert.Contains(t, out, "[SYS]")
	assert.Contains(t, out, "Service running")
	assert.Contains(t, out, "addr=:8080")
}

func TestLogError(t *testing.T) {
	h, buf := newBufferedHandler()
	withDefaultLogger(t, h)

	LogError("Setup failed", errors.New("connection refused"))

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "Setup failed")
	assert.Contains(t, out, "connection refused")
}

func TestLogStorage(t *testing.T) {
	h, buf := newBufferedHandler()
	h.SetLevel(slog.LevelDebug)
	withDefaultLogger(t, h)

	LogStorage("initialize schema", 12*time.Millisecond, nil)
	out := buf.String()
	assert.Contains(t, out, "[DB]")
	assert.Contains(t, out, "op=initialize schema")

	buf.Reset()
	LogStorage("initialize schema", time.Millisecond, errors.New("disk full"))
	out = buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "disk full")

	// Success chatter stays below the default info floor.
	buf.Reset()
	h.SetLevel(slog.LevelInfo)
	LogStorage("initialize schema", time.Millisecond, nil)
	assert.Empty(t, buf.String())
}
