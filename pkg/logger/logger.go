// Package logger wraps zap and optionally mirrors selected messages to a
// user-facing notification channel.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	zap    *zap.SugaredLogger
	notify func(string)
}

func New(debug bool) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: couldn't build zap logger: %w", err)
	}
	return &Logger{zap: zl.Sugar()}, nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop().Sugar()}
}

// SetNotifier attaches the user notification sink. Must be called before
// any message handling starts; Notifyf falls back to plain logging when no
// notifier is attached.
func (l *Logger) SetNotifier(fn func(string)) {
	l.notify = fn
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zap.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zap.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zap.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zap.Errorf(format, args...)
}

// Notifyf logs at info level and forwards the message to the notification
// channel.
func (l *Logger) Notifyf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.zap.Info(msg)
	if l.notify != nil {
		l.notify(msg)
	}
}

func (l *Logger) Sync() error {
	return l.zap.Sync()
}
