// Package logging builds the zap logger used by the collector.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnv overrides the configured level.
const LevelEnv = "LOG_LEVEL"

// Options configures New.
type Options struct {
	// Console receives human readable output. Nil disables console output.
	Console io.Writer
	// File, when set, receives JSON output with rotation.
	File string
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
}

// New creates a logger writing to the console and, optionally, to a rotated
// file. The returned func flushes buffered entries.
func New(opts Options) (*zap.Logger, func()) {
	level := ParseLevel(opts.Level)
	if env := os.Getenv(LevelEnv); env != "" {
		level = ParseLevel(env)
	}

	var cores []zapcore.Core

	if opts.Console != nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(zapcore.AddSync(opts.Console)),
			level,
		))
	}

	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    2, // megabytes
			MaxBackups: 5,
			MaxAge:     15, // days
			Compress:   true,
		})

		cfg := zap.NewProductionConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), fileWriter, level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, func() {
		_ = logger.Sync()
	}
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
