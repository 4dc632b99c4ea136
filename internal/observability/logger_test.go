package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"domshot/internal/config"
)

func initBuffer(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)
	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestConsoleLoggerColorsLevels(t *testing.T) {
	buf := initBuffer(t, config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "domshot",
		Colors:      config.ColorConfig{Info: "green"},
	})

	GetLogger().Info("Rendered page", zap.String("output", "out.png"))
	GetLogger().Debug("Canvas renderer initialized")
	Sync()

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "domshot.")
	assert.Contains(t, out, "Rendered page")
	assert.Contains(t, out, `"output": "out.png"`)
	// Debug has no colour configured.
	assert.Contains(t, out, "\tDEBUG\t")
}

func TestJSONLogger(t *testing.T) {
	buf := initBuffer(t, config.LoggerConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "batch",
	})

	GetLogger().Warn("Error loading image", zap.String("url", "a.png"))
	Sync()

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "batch", entry["logger"])
	assert.Equal(t, "Error loading image", entry["msg"])
	assert.Equal(t, "a.png", entry["url"])
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warning bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := initBuffer(t, config.LoggerConfig{Level: tt.level, Format: "json"})
			GetLogger().Debug("debug line")
			GetLogger().Warn("warn line")
			Sync()

			assert.Equal(t, tt.debug, strings.Contains(buf.String(), "debug line"))
			assert.Equal(t, tt.warning, strings.Contains(buf.String(), "warn line"))
		})
	}
}

func TestInitializeOnlyOnce(t *testing.T) {
	first := initBuffer(t, config.LoggerConfig{Level: "info", Format: "json"})
	var second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("hello")
	Sync()
	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domshot.log")
	initBuffer(t, config.LoggerConfig{
		Level:   "info",
		Format:  "console",
		LogFile: path,
		MaxSize: 1,
	})

	GetLogger().Error("Render failed", zap.String("snapshot", "page.json"))
	Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(bytes.TrimSpace(raw), &entry))
	assert.Equal(t, "Render failed", entry["msg"])
	assert.Equal(t, "page.json", entry["snapshot"])
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.Equal(t, "fallback", logger.Name())
}
