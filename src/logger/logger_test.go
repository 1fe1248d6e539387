package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("WARN")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestContextualLogger(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter("info", &buf)

	ctx := ToContext(context.Background(), L.With("requestID", "abc"))
	InfoFromContext(ctx, "trade saved", "symbol", "INFY")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "trade saved", entry["msg"])
	assert.Equal(t, "abc", entry["requestID"])
	assert.Equal(t, "INFY", entry["symbol"])

	assert.Same(t, L, FromContext(context.Background()))
}
