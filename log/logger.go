package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The format used for non-terminal sinks; color escapes are dropped.
var plainFormat = logging.MustStringFormatter(
	`[%{time:2006-01-02 15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// The logger interface
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

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink.
func SetSink(sink io.Writer) {
	install(logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format))
}

// Send colored output to the console sink and uncolored output to a
// secondary sink such as a log file.
func SetSinks(console, file io.Writer) {
	install(logging.MultiLogger(
		logging.NewBackendFormatter(logging.NewLogBackend(console, "", 0), format),
		logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), plainFormat),
	))
}

// Swap the backend while keeping the verbosity of the one it replaces.
func install(backend logging.Backend) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// Set logger verbosity.
func SetLevel(level Level) {
	switch level {
	case Debug:
		leveledBackend.SetLevel(logging.DEBUG, "")
	case Info:
		leveledBackend.SetLevel(logging.INFO, "")
	case Notice:
		leveledBackend.SetLevel(logging.NOTICE, "")
	case Warning:
		leveledBackend.SetLevel(logging.WARNING, "")
	case Error:
		leveledBackend.SetLevel(logging.ERROR, "")
	}
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
