package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jaminalder/tictactoe-timetravel/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	t.Run("Uses the configured level", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "warn"})

		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("Panics on a level that skipped validation", func(t *testing.T) {
		assert.Panics(t, func() { initLogger(&config.Config{LogLevel: "chatty"}) })
	})
}
