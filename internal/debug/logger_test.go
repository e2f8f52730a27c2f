package debug

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupText(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	require.NoError(t, Setup(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug}))
	assert.True(t, Enabled())

	Component("engine").With("session", "s1").Debug("row mapped", "row", 3)
	assert.Contains(t, buf.String(), "component=engine")
	assert.Contains(t, buf.String(), "session=s1")
	assert.Contains(t, buf.String(), "row=3")
}

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	require.NoError(t, Setup(Options{Enabled: true, Writer: &buf, Format: JSONFormat, Level: slog.LevelInfo}))
	Debug("below level")
	Info("schema built", "mappings", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "schema built", rec["msg"])
	assert.Equal(t, 2.0, rec["mappings"])
}

func TestSetupUnknownFormat(t *testing.T) {
	err := Setup(Options{Enabled: true, Format: "xml"})
	assert.EqualError(t, err, `unknown log format "xml" (want text or json)`)
}

func TestDisabled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(Options{Writer: &buf}))
	assert.False(t, Enabled())
	assert.NotPanics(t, func() {
		Debug("hidden")
		Warn("hidden")
		Error("hidden")
	})
	assert.Empty(t, buf.String())
}

func TestLevelHelpers(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	require.NoError(t, Setup(Options{Enabled: true, Writer: &buf, Level: slog.LevelWarn}))
	Info("skipped")
	Warn("slow row", "ms", 12)
	Error("row failed")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "ms=12")
	assert.Contains(t, out, "level=ERROR")
}
