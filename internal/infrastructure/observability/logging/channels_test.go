package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Writer = buf
	l, err := NewChanneledLogger(cfg)
	require.NoError(t, err)
	return l, buf
}

func TestChannelAttributeIsAttached(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.Leads().Info("stored", "id", "01H")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "leads", rec["channel"])
	assert.Equal(t, "stored", rec["msg"])
	assert.Equal(t, "01H", rec["id"])
}

func TestSetChannelLevel(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.Database().Debug("hidden")
	assert.Zero(t, buf.Len())

	require.NoError(t, l.SetChannelLevel(ChannelDatabase, slog.LevelDebug))
	l.Database().Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, "DEBUG", l.GetChannelLevels()["database"])

	assert.Error(t, l.SetChannelLevel(Channel("nope"), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("fatal"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestConfigFromEnvChannelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL_SLOW_QUERY", "error")
	cfg := ConfigFromEnv("logs", "text", "debug", false)

	assert.False(t, cfg.JSONFormat)
	assert.Equal(t, slog.LevelDebug, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelError, cfg.ChannelLevels[ChannelSlowQuery])
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "m***@studio.it", MaskEmail("mario@studio.it"))
	assert.Equal(t, "********", MaskEmail("short"))
	assert.Equal(t, "01HZ****WXYZ", MaskID("01HZABCDEFWXYZ"))
}

func TestLogSlowQueryFlattensSQL(t *testing.T) {
	l, buf := newBufferLogger(t)
	l.LogSlowQuery("SELECT *\n\tFROM contact_submissions", 0)
	assert.True(t, strings.Contains(buf.String(), "SELECT * FROM contact_submissions"))
}

func TestLogOperationLevels(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.LogOperation("leads:submit", "01HZ****WXYZ", 10*time.Millisecond, "", false)
	assert.Zero(t, buf.Len())

	l.LogOperation("leads:submit", "01HZ****WXYZ", 2*time.Second, "", true)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "performance", rec["channel"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "Slow operation", rec["msg"])
	assert.Equal(t, "leads:submit", rec["operation"])

	buf.Reset()
	l.LogOperation("admin:update_status", "system", time.Millisecond, "not found", false)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Operation failed", rec["msg"])
	assert.Equal(t, "not found", rec["error"])
}
