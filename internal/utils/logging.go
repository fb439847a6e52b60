// Copyright (c) 2025 @AmarnathCJD

package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	DebugLevel LogLevel = iota + 1
	InfoLevel
	WarnLevel
	ErrorLevel
	NoLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case NoLevel:
		return "none"
	default:
		return "unknown"
	}
}

// ParseLevel accepts the names printed by String, case insensitive.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "none", "off", "disabled":
		return NoLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case NoLevel:
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the logger every component writes to. Loggers derived with
// WithPrefix share the level of their parent.
type Logger struct {
	z      *zap.Logger
	level  zap.AtomicLevel
	prefix string
}

type LoggerConfig struct {
	Level  LogLevel
	Prefix string
	// Zap is the backend; a production logger is built when nil.
	Zap *zap.Logger
}

func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{Level: InfoLevel}
}

func NewLogger(prefix string) *Logger {
	cfg := DefaultConfig()
	cfg.Prefix = prefix
	return NewLoggerWithConfig(cfg)
}

func NewLoggerWithConfig(config *LoggerConfig) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	level := zap.NewAtomicLevelAt(config.Level.zapLevel())

	base := config.Zap
	if base == nil {
		zc := zap.NewProductionConfig()
		zc.Level = level
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		var err error
		if base, err = zc.Build(zap.AddCallerSkip(2)); err != nil {
			base = zap.NewNop()
		}
	} else {
		base = base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return &levelCore{Core: c, level: level}
		}))
	}

	l := &Logger{z: base, level: level}
	if config.Prefix != "" {
		return l.WithPrefix(config.Prefix)
	}
	return l
}

// levelCore puts an adjustable level in front of a caller supplied core.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{z: l.z.Named(prefix), level: l.level, prefix: prefix}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{z: l.z.With(zap.Any(key, value)), level: l.level, prefix: l.prefix}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{z: l.z.With(zap.Error(err)), level: l.level, prefix: l.prefix}
}

func (l *Logger) SetLevel(level LogLevel) *Logger {
	l.level.SetLevel(level.zapLevel())
	return l
}

func (l *Logger) GetPrefix() string {
	return l.prefix
}

// Zap exposes the backend for libraries that take a *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) log(level zapcore.Level, msg string, args ...any) {
	if !l.z.Core().Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if ce := l.z.Check(level, msg); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(zapcore.DebugLevel, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(zapcore.InfoLevel, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(zapcore.WarnLevel, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(zapcore.ErrorLevel, msg, args...) }

func (l *Logger) DebugErr(err error) { l.WithError(err).Debug(err.Error()) }
func (l *Logger) WarnErr(err error)  { l.WithError(err).Warn(err.Error()) }
func (l *Logger) ErrorErr(err error) { l.WithError(err).Error(err.Error()) }

func (l *Logger) Debugf(format string, args ...any) { l.Debug(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Info(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Warn(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Error(format, args...) }
