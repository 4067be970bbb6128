// Package logger builds the process logger. Zap does the encoding; callers
// get a *slog.Logger so packages stay on the standard logging interface.
package logger

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// NewZap builds a zap logger writing to stdout, console encoded unless json
// is set, at info level unless debug is set.
func NewZap(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// New returns a slog logger backed by NewZap.
func New(json bool, debug bool) (*slog.Logger, error) {
	zl, err := NewZap(json, debug)
	if err != nil {
		return nil, err
	}
	return FromCore(zl.Core()), nil
}

// FromCore exposes a zap core through slog.
func FromCore(core zapcore.Core) *slog.Logger {
	return slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true)))
}

// Discard returns a logger that drops everything. Handy for CLI paths and
// tests that do not care about output.
func Discard() *slog.Logger {
	return FromCore(zapcore.NewNopCore())
}
