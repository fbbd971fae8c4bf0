package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lexvault/lexvault-api/internal/config"
	"github.com/lexvault/lexvault-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "bogus"} {
		t.Run(level, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: level})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("returns logger from context", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), customLogger)
		assert.Same(t, customLogger, logger.FromContextOrDefault(ctx, defaultLogger))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, defaultLogger, logger.FromContextOrDefault(context.Background(), defaultLogger))
	})

	t.Run("falls back to slog default when both absent", func(t *testing.T) {
		assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	})
}
