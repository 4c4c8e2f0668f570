package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults when the file is missing", func(t *testing.T) {
		// When: loading from a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: every field carries its default
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, ModeWeb, conf.Mode)
		assert.Equal(t, ":8080", conf.HTTP.Addr)
		assert.Equal(t, 15*time.Second, conf.HTTP.Heartbeat)
		assert.Equal(t, 2*time.Hour, conf.Session.TTL)
		assert.Equal(t, 5*time.Minute, conf.Session.SweepInterval)
		assert.False(t, conf.NoColor)
	})

	t.Run("Reads values from the yaml file", func(t *testing.T) {
		// Given: a config file overriding some fields
		path := writeConfig(t, `
log-level: debug
mode: terminal
no-color: true
http:
  addr: ":9090"
session:
  ttl: 30m
`)

		// When: loading it
		conf, err := Load(path)

		// Then: file values win over defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, ModeTerminal, conf.Mode)
		assert.True(t, conf.NoColor)
		assert.Equal(t, ":9090", conf.HTTP.Addr)
		assert.Equal(t, 30*time.Minute, conf.Session.TTL)
		assert.Equal(t, 15*time.Second, conf.HTTP.Heartbeat)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http:\n  addr: \":9090\"\n")
		t.Setenv("HTTP_ADDR", ":7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, ":7070", conf.HTTP.Addr)
	})

	t.Run("Rejects an unknown mode", func(t *testing.T) {
		path := writeConfig(t, "mode: curses\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownMode)
	})

	t.Run("Rejects an unknown log level", func(t *testing.T) {
		path := writeConfig(t, "log-level: chatty\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownLogLevel)
	})

	t.Run("Rejects a non-positive sweep interval", func(t *testing.T) {
		// Given: a sweep interval that time.NewTicker would panic on
		for _, v := range []string{"0s", "-1m"} {
			path := writeConfig(t, "session:\n  sweep-interval: "+v+"\n")

			// When: loading it
			_, err := Load(path)

			// Then: the config is refused before anything starts
			require.ErrorIs(t, err, ErrNonPositive, v)
		}
	})

	t.Run("Rejects a non-positive ttl", func(t *testing.T) {
		for _, v := range []string{"0s", "-2h"} {
			path := writeConfig(t, "session:\n  ttl: "+v+"\n")

			_, err := Load(path)

			require.ErrorIs(t, err, ErrNonPositive, v)
		}
	})

	t.Run("Color switch ignores NO_COLOR values", func(t *testing.T) {
		// Given: NO_COLOR set to a value that is not a boolean
		t.Setenv("NO_COLOR", "yes")
		t.Setenv("TICTACTOE_NO_COLOR", "true")

		// When: loading from the environment only
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: loading succeeds and the own switch is honored
		require.NoError(t, err)
		assert.True(t, conf.NoColor)
	})
}

func TestMustLoadPanicsOnInvalidConfig(t *testing.T) {
	path := writeConfig(t, "mode: curses\n")

	assert.Panics(t, func() { MustLoad(path) })
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		conf := &Config{LogLevel: name}

		got, err := conf.SlogLevel()

		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}
