// Package log hands out module tagged loggers. All of them share one sink
// and one verbosity, both set once by the command line front end.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = [...]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "UNKNOWN"
	}
	return backendLevels[l].String()
}

// FromFlags maps the -v and -vv switches to a level; -vv wins.
func FromFlags(verbose, debug bool) Level {
	switch {
	case debug:
		return Debug
	case verbose:
		return Info
	default:
		return Notice
	}
}

var (
	format = logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{level:.4s} [%{module}]%{color:reset} %{message}`,
	)
	current = Notice
	backend logging.LeveledBackend
)

// Logger is what every package keeps in its package level logger var.
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

func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends every logger to w. The level survives the switch.
func SetSink(w io.Writer) {
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(backendLevels[current], "")
	logging.SetBackend(backend)
}

// SetLevel changes the verbosity of every module. Unknown levels mean Notice.
func SetLevel(level Level) {
	if level < Debug || level > Error {
		level = Notice
	}
	current = level
	backend.SetLevel(backendLevels[level], "")
}

func CurrentLevel() Level {
	return current
}

func init() {
	SetSink(os.Stderr)
}
