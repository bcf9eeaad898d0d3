// Package log builds the zap loggers used by the commands.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCliLogger writes bare messages to stdout, debug ones only when verbose.
// When logFile is set, every entry is also written there as JSON.
func NewCliLogger(stdout io.Writer, logFile io.Writer, verbose bool) *zap.SugaredLogger {
	var cores []zapcore.Core

	if logFile != nil {
		cores = append(cores, fileCore(logFile))
	}

	cores = append(cores, stdoutCore(stdout, verbose))

	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// DebugLogger reports every entry at debug level. HTTP clients log each
// failed attempt as an error, the command reports the failure itself.
type DebugLogger struct {
	*zap.SugaredLogger
}

func (l DebugLogger) Errorf(format string, v ...interface{}) {
	l.Debugf(format, v...)
}

func (l DebugLogger) Warnf(format string, v ...interface{}) {
	l.Debugf(format, v...)
}

// OpenFile opens path for appending log entries.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func stdoutCore(w io.Writer, verbose bool) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if verbose {
		encoderConfig.LevelKey = "level"
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	if verbose {
		return core
	}
	return messageCore{Core: core}
}

// messageCore drops structured fields, the console only shows the message.
type messageCore struct {
	zapcore.Core
}

func (c messageCore) With([]zapcore.Field) zapcore.Core {
	return c
}

func (c messageCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c messageCore) Write(entry zapcore.Entry, _ []zapcore.Field) error {
	return c.Core.Write(entry, nil)
}

func fileCore(w io.Writer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), zapcore.DebugLevel)
}
