package logging

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
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger_JSONWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	logger = WithRun(WithSymbol(logger, "AAPL"), "run-1")

	logger.Debug().Msg("hidden")
	logger.Info().Float64("score", 69).Msg("analyzed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "AAPL", entry["symbol"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "analyzed", entry["message"])
	assert.Equal(t, 69.0, entry["score"])
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scout.log")
	cfg := DefaultLogConfig()
	cfg.Format = "json"
	cfg.File = true
	cfg.FilePath = path

	var buf bytes.Buffer
	logger := newLogger(cfg, &buf)
	logger.Warn().Msg("written twice")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written twice")
	assert.Contains(t, buf.String(), "written twice")
}
