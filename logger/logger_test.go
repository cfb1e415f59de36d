package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(Config{Level: "info", Output: &buf}), "session")
	l.Debug().Msg("hidden")
	l.Info().Int("turns", 2).Msg("turn complete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "smartchat", entry["service"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "turn complete", entry["message"])
	assert.EqualValues(t, 2, entry["turns"])
}

func TestOpenDebugLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	l, f, err := OpenDebugLog(dir)
	require.NoError(t, err)
	l.Debug().Msg("hello from test")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
