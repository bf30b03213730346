package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Info("order", "placed")
	l.LogSecurity("LOGIN_FAILED", "bad password")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[ORDER     ]")
	assert.Contains(t, out, "placed")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "[LOGIN_FAILED] bad password")
	assert.Contains(t, out, "logger_test.go")
}

func TestSetLevel_FiltersLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.SetLevel(WARN)

	l.Debug("API", "noise")
	l.Info("API", "noise")
	l.Error("API", "boom")

	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "boom")
}

func TestNew_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "test-service")
	l.LogDatabase("INSERT", "orders", "ok")
	l.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "test-service-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Category == "DATABASE" {
			found = true
			assert.Equal(t, "INFO", entry.Level)
			assert.Equal(t, "[INSERT] orders - ok", entry.Message)
		}
	}
	assert.True(t, found)
}
