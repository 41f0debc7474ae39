package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json")
	logger.Info("ready", "addr", ":8080")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ready", entry["msg"])
	assert.Contains(t, entry, "source")
}

func TestNewLoggerPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "pretty")
	logger.Info("ready", "addr", ":8080")

	out := buf.String()
	assert.Contains(t, out, "msg=ready")
	assert.NotContains(t, out, "source=")
}

func TestNewLoggerDefaultsToTextWithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "")
	logger.Info("ready")

	out := buf.String()
	assert.Contains(t, out, "msg=ready")
	assert.True(t, strings.Contains(out, "source="))
}
