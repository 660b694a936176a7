// Package logging is the process-wide operational logger. Verdicts are not
// persisted here; only service events are.
package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(fields map[string]any, msg string)
	Info(fields map[string]any, msg string)
	Warn(fields map[string]any, msg string)
	Error(fields map[string]any, msg string)
	Sync() error
}

var global atomic.Value

func init() {
	global.Store(holder{newZapLogger(false, zapcore.InfoLevel)})
}

// holder keeps atomic.Value stores the same concrete type.
type holder struct{ Logger }

func SetLogger(l Logger) {
	if l == nil {
		l = NewNoopLogger()
	}
	global.Store(holder{l})
}

func GetLogger() Logger {
	return global.Load().(holder).Logger
}

// Configure installs a zap logger. env "dev" selects the coloured console
// encoder; anything else logs JSON.
func Configure(env, level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	SetLogger(newZapLogger(env == "dev", lvl))
	return nil
}

func Debug(fields map[string]any, msg string) { GetLogger().Debug(fields, msg) }
func Info(fields map[string]any, msg string)  { GetLogger().Info(fields, msg) }
func Warn(fields map[string]any, msg string)  { GetLogger().Warn(fields, msg) }
func Error(fields map[string]any, msg string) { GetLogger().Error(fields, msg) }
func Sync() error                             { return GetLogger().Sync() }

type zapLogger struct {
	base *zap.Logger
}

// New wraps an existing zap logger.
func New(base *zap.Logger) Logger {
	if base == nil {
		return NewNoopLogger()
	}
	return &zapLogger{base: base}
}

func newZapLogger(dev bool, level zapcore.Level) Logger {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"

	logger, err := cfg.Build()
	if err != nil {
		return NewNoopLogger()
	}
	return &zapLogger{base: logger}
}

func (l *zapLogger) Debug(fields map[string]any, msg string) {
	l.base.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(fields map[string]any, msg string) {
	l.base.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(fields map[string]any, msg string) {
	l.base.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(fields map[string]any, msg string) {
	l.base.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Sync() error {
	return l.base.Sync()
}

// zapFields sorts keys so output is stable.
func zapFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(m))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, m[k]))
	}
	return fields
}

type noopLogger struct{}

func (noopLogger) Debug(map[string]any, string) {}
func (noopLogger) Info(map[string]any, string)  {}
func (noopLogger) Warn(map[string]any, string)  {}
func (noopLogger) Error(map[string]any, string) {}
func (noopLogger) Sync() error                  { return nil }

func NewNoopLogger() Logger {
	return noopLogger{}
}
