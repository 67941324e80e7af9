package utils

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCPLoggerAttributeReplacer(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{ReplaceAttr: GCPLoggerAttributeReplacer}))

	logger.Warn("file_uploaded", "mime_type", "text/plain")

	assert.Contains(t, buf.String(), `"severity":"WARNING"`)
	assert.Contains(t, buf.String(), `"message":"file_uploaded"`)
}

func TestLoggerFromContext(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := slog.New(NewLocalDevHandler(buf, slog.LevelDebug))
	ctx := StoreLoggerInContext(context.Background(), logger)

	LoggerFromContext(ctx).InfoContext(ctx, "hello", "key", "value")

	assert.Contains(t, buf.String(), "INFO hello key=value")
	assert.Equal(t, slog.Default(), LoggerFromContext(context.Background()))
}
