package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestParseLevel_FallsBackToEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, zapcore.DebugLevel, parseLevel(""))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
}

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collector.log")

	logger, err := NewLogger(Options{Level: "info", File: path, Format: "console"})
	require.NoError(t, err)

	logger.Info("tick persisted", zap.Int("columns", 31))
	logger.Debug("filtered out")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO - ")
	assert.Contains(t, string(data), "tick persisted")
	assert.NotContains(t, string(data), "filtered out")
}

func TestNewLogger_StdoutOnly(t *testing.T) {
	logger, err := NewLogger(Options{Level: "warn"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
