package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/userdir-io/userdir/internal/platform/logger"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns stored logger", func(t *testing.T) {
		t.Parallel()

		stored := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		t.Parallel()

		got := logger.FromContext(context.Background())
		assert.NotNil(t, got)
	})
}

func TestSetup(t *testing.T) {
	// Setup mutates the process-wide default logger, so no t.Parallel here.
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "mixed case level", level: "WARN"},
		{name: "invalid level falls back to info", level: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.Setup(tt.level)
			assert.NotNil(t, got)
			assert.Same(t, got, slog.Default())
		})
	}
}
