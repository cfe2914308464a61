// Package logger is the structured logger shared by the CLI and the server.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured log field.
type Field = zap.Field

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)

	// With returns a child logger carrying the given fields on every entry.
	With(fields ...Field) Logger

	Sync() error
}

type zapLogger struct {
	base    *zap.Logger
	sugared *zap.SugaredLogger
}

// DefaultLevel applies when the configured level is empty or unknown.
const DefaultLevel = zapcore.InfoLevel

// New logs to stderr so command output on stdout stays pipeable. pretty
// selects the colored console encoder, otherwise entries are JSON.
func New(level string, pretty bool) Logger {
	return newWithSink(level, pretty, zapcore.Lock(os.Stderr))
}

func newWithSink(level string, pretty bool, sink zapcore.WriteSyncer) Logger {
	var enc zapcore.Encoder
	if pretty {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
		enc = zapcore.NewConsoleEncoder(ec)
	} else {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	}

	core := zapcore.NewCore(enc, sink, ParseLevel(level))
	return wrap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.FatalLevel)))
}

// ParseLevel accepts zap level names ("debug", "WARN", "warning"...) and
// falls back to DefaultLevel.
func ParseLevel(s string) zapcore.Level {
	if s == "warning" {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil || s == "" {
		return DefaultLevel
	}
	return lvl
}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return wrap(zap.NewNop()) }

func wrap(base *zap.Logger) Logger {
	return &zapLogger{base: base, sugared: base.Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.base.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.base.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.base.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.base.Error(msg, fields...) }

func (l *zapLogger) Debugf(t string, args ...any) { l.sugared.Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...any)  { l.sugared.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...any)  { l.sugared.Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...any) { l.sugared.Errorf(t, args...) }

func (l *zapLogger) With(fields ...Field) Logger { return wrap(l.base.With(fields...)) }

func (l *zapLogger) Sync() error { return l.base.Sync() }

// Field constructors, so callers never import zap.
func String(key, val string) Field                 { return zap.String(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Int64(key string, val int64) Field            { return zap.Int64(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Error(err error) Field                        { return zap.Error(err) }
