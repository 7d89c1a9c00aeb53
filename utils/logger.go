package utils

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logger handed to services, the seeder and the
// websocket hub.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	Sync() error
}

// NewZap builds a zap logger. format "json" selects the production encoder,
// anything else the human-readable development one.
func NewZap(levelStr, format string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) Debug(msg string, fields map[string]interface{}) {
	z.l.Debug(msg, zapFields(fields)...)
}

func (z *zapLogger) Info(msg string, fields map[string]interface{}) {
	z.l.Info(msg, zapFields(fields)...)
}

func (z *zapLogger) Warn(msg string, fields map[string]interface{}) {
	z.l.Warn(msg, zapFields(fields)...)
}

func (z *zapLogger) Error(msg string, fields map[string]interface{}) {
	z.l.Error(msg, zapFields(fields)...)
}

func (z *zapLogger) WithFields(fields map[string]interface{}) Logger {
	return &zapLogger{l: z.l.With(zapFields(fields)...)}
}

func (z *zapLogger) WithError(err error) Logger {
	return &zapLogger{l: z.l.With(zap.Error(err))}
}

func (z *zapLogger) Sync() error {
	return z.l.Sync()
}

func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// NewLogger returns the application logger for the configured level/format.
func NewLogger(levelStr, format string) (Logger, error) {
	l, err := NewZap(levelStr, format)
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func NewTestLogger(t testing.TB) Logger {
	return &zapLogger{l: zaptest.NewLogger(t)}
}
