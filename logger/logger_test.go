package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessage = "test message"

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", "debug", true, true},
		{"info", "info", false, true},
		{"warn", "warn", false, false},
		{"invalid falls back to info", "nope", false, true},
		{"empty falls back to info", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.level, nil)

			log.Debug().Msg("debug")
			log.Info().Msg("info")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, `"message":"debug"`))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, `"message":"info"`))
		})
	}
}

func TestEventFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", nil)

	log.Warn().
		Str("method", "POST").
		Int("attempt", 2).
		Int64("call_count", 7).
		Dur("elapsed", 250*time.Millisecond).
		Err(errors.New("504 GATEWAY_TIMEOUT")).
		Msg(testMessage)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, testMessage, entry["message"])
	assert.Equal(t, "POST", entry["method"])
	assert.InDelta(t, 2, entry["attempt"], 0)
	assert.InDelta(t, 7, entry["call_count"], 0)
	assert.Equal(t, "504 GATEWAY_TIMEOUT", entry["error"])
	assert.Contains(t, entry, "caller")
}

func TestSensitiveFieldsAreMasked(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", nil)

	log.Info().
		Str("Authorization", "Basic a2V5OnRva2Vu").
		Interface("headers", map[string]string{
			"Authorization": "Basic a2V5OnRva2Vu",
			"Accept":        "application/json",
		}).
		Msg(testMessage)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultMaskValue, entries[0]["Authorization"])

	headers, ok := entries[0]["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, DefaultMaskValue, headers["Authorization"])
	assert.Equal(t, "application/json", headers["Accept"])
	assert.NotContains(t, buf.String(), "a2V5OnRva2Vu")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", nil)

	child := log.WithFields(map[string]any{"component": "executor", "api_key": "k"})
	child.Info().Msg(testMessage)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "executor", entries[0]["component"])
	assert.Equal(t, DefaultMaskValue, entries[0]["api_key"])
}

func TestWithContextWithoutLoggerReturnsSame(t *testing.T) {
	log := NewWithWriter(&bytes.Buffer{}, "info", nil)
	assert.Same(t, log, log.WithContext("not a context"))
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Error().Str("k", "v").Int("n", 1).Msgf("%s", "ignored")
	})
}
