// Package tlog provides the leveled, named logger used across the tracer's
// packages.
package tlog

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a logger verbosity threshold.
type Level logging.Level

// Levels accepted by SetLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is the interface every package-level logger satisfies.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a named logger. Named loggers share the package-level sink and
// level set by SetSink/SetLevel.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all logger output, for tests that want to capture or
// silence it.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the minimum level that reaches the sink.
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	}

	leveledBackend.SetLevel(loggerLevel, "")
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}

// LevelFromVerbosity maps a CLI verbosity count (number of -v flags) to a
// Level: counts <= 0 give Notice (the package default), 1 gives Info, and
// anything above 1 gives Debug.
func LevelFromVerbosity(count int) Level {
	switch {
	case count <= 0:
		return Notice
	case count == 1:
		return Info
	default:
		return Debug
	}
}
