package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_Console(t *testing.T) {
	t.Setenv(LevelEnv, "")

	var buf bytes.Buffer
	logger, sync := New(Options{Console: &buf, Level: "info"})
	logger.Debug("hidden")
	logger.Info("collected", zap.Int("handlers", 2))
	sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "collected")
	assert.Contains(t, out, `"handlers": 2`)
}

func TestNew_EnvOverridesLevel(t *testing.T) {
	t.Setenv(LevelEnv, "debug")

	var buf bytes.Buffer
	logger, sync := New(Options{Console: &buf, Level: "error"})
	logger.Debug("visible")
	sync()

	assert.Contains(t, buf.String(), "visible")
}

func TestNew_File(t *testing.T) {
	t.Setenv(LevelEnv, "")

	path := filepath.Join(t.TempDir(), "collector.log")
	logger, sync := New(Options{File: path})
	logger.Info("to file")
	sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestNew_NoOutputs(t *testing.T) {
	logger, sync := New(Options{})
	defer sync()

	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
