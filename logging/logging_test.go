package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "ERROR", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.level)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)

	var levelErr *InvalidLevelError
	require.ErrorAs(t, err, &levelErr)
}

func TestNewLogger(t *testing.T) {
	t.Run("JSON output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewLogger(NewLoggerOpts{
			JSON:    true,
			Writer:  buf,
			AppName: "mq-test",
		})
		require.NoError(t, err)

		log.Info("hello", slog.String("key", "value"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
		assert.Equal(t, "mq-test", record["app"])
	})

	t.Run("text output for non-TTY writers", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewLogger(NewLoggerOpts{
			Writer: buf,
		})
		require.NoError(t, err)

		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log, err := NewLogger(NewLoggerOpts{
			Level:  "warn",
			Writer: buf,
		})
		require.NoError(t, err)

		log.Info("ignored")
		assert.Empty(t, buf.String())

		log.Warn("recorded")
		assert.Contains(t, buf.String(), "msg=recorded")
	})

	t.Run("invalid level", func(t *testing.T) {
		log, err := NewLogger(NewLoggerOpts{
			Level: "loud",
		})
		require.Error(t, err)
		assert.Nil(t, log)
	})
}
