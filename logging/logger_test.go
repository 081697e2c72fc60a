package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*LogrusAdapter)(nil)
	_ Logger = (*StoreLogger)(nil)
	_ Logger = NoOpLogger{}
)

func TestStoreLogger_LevelsAndContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf, Component: "database"})

	l.Debug("hidden")
	l.WithPath("users/ada").WithContext("request", "r1").Info("visible", "count", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "database", rec["component"])
	assert.Equal(t, "users/ada", rec["path"])
	assert.Equal(t, "r1", rec["request"])
	assert.Equal(t, float64(2), rec["count"])
}

func TestStoreLogger_LogWrite(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf})

	l.LogWrite("set", "users", time.Millisecond, 2, nil)
	l.LogWrite("set", "users", time.Millisecond, 0, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"Write completed"`)
	assert.Contains(t, out, `"msg":"Write failed"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"event_count":2`)
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]LogLevel{"debug": LogLevelDebug, "INFO": LogLevelInfo, "": LogLevelInfo, "warning": LogLevelWarn, "error": LogLevelError} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	lr := logrus.New()
	lr.SetOutput(&buf)
	lr.SetFormatter(&logrus.JSONFormatter{})
	lr.SetLevel(logrus.DebugLevel)

	l := NewLogrusAdapter(lr)
	l.Warn("query not implemented", "method", "orderByPriority", "dangling")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "query not implemented", rec["msg"])
	assert.Equal(t, "orderByPriority", rec["method"])
	assert.Equal(t, "dangling", rec["!BADKEY"])
}
