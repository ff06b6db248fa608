// Package logger provides leveled logging on top of phuslu/log.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

var std = newLogger("info", "text", os.Stderr)

func newLogger(level, format string, w io.Writer) *log.Logger {
	l := &log.Logger{
		Level:      log.ParseLevel(strings.ToLower(level)),
		TimeFormat: "2006-01-02 15:04:05.000",
	}
	if strings.ToLower(format) == "json" {
		l.Writer = &log.IOWriter{Writer: w}
	} else {
		l.Writer = &log.ConsoleWriter{Writer: w, ColorOutput: w == os.Stderr}
	}
	return l
}

// Init configures the default logger. Unknown levels fall back to info.
func Init(level, format string) {
	std = newLogger(level, format, os.Stderr)
}

// SetOutput rebuilds the default logger on w.
func SetOutput(level, format string, w io.Writer) {
	std = newLogger(level, format, w)
}

func Debug(format string, args ...interface{}) {
	std.Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	std.Info().Msgf(format, args...)
}

func Warn(format string, args ...interface{}) {
	std.Warn().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	std.Error().Msgf(format, args...)
}

// Fatal logs and exits the process.
func Fatal(format string, args ...interface{}) {
	std.Error().Msgf(format, args...)
	os.Exit(1)
}
