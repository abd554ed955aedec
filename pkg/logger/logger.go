// Package logger provides the package-level structured logger used by the
// dispatcher, codec, and tool bridge. It wraps a single *zap.SugaredLogger
// behind an atomic singleton so it can be swapped in tests without a
// package-level var that races under -race.
package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var singleton atomic.Pointer[zap.SugaredLogger]

func init() {
	singleton.Store(newDefault().Sugar())
}

func newDefault() *zap.Logger {
	level := zapcore.InfoLevel
	if os.Getenv("MCPUI_DEBUG") != "" {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"

	l, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op-safe logger rather than panicking at import time.
		l = zap.NewNop()
	}
	return l
}

// SetForTest replaces the singleton logger and returns a restore function.
func SetForTest(l *zap.SugaredLogger) (restore func()) {
	prev := singleton.Swap(l)
	return func() { singleton.Store(prev) }
}

func get() *zap.SugaredLogger {
	return singleton.Load()
}

// Debug logs at debug level.
func Debug(args ...any) { get().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(template string, args ...any) { get().Debugf(template, args...) }

// Debugw logs a message with structured key/value pairs at debug level.
func Debugw(msg string, kv ...any) { get().Debugw(msg, kv...) }

// Info logs at info level.
func Info(args ...any) { get().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(template string, args ...any) { get().Infof(template, args...) }

// Infow logs a message with structured key/value pairs at info level.
func Infow(msg string, kv ...any) { get().Infow(msg, kv...) }

// Warn logs at warn level.
func Warn(args ...any) { get().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(template string, args ...any) { get().Warnf(template, args...) }

// Warnw logs a message with structured key/value pairs at warn level.
func Warnw(msg string, kv ...any) { get().Warnw(msg, kv...) }

// Error logs at error level.
func Error(args ...any) { get().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(template string, args ...any) { get().Errorf(template, args...) }

// Errorw logs a message with structured key/value pairs at error level.
func Errorw(msg string, kv ...any) { get().Errorw(msg, kv...) }

// Panicf logs at panic level and then panics.
func Panicf(template string, args ...any) { get().Panicf(template, args...) }

// Sync flushes any buffered log entries.
func Sync() error { return get().Sync() }
