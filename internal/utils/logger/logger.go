package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelSuccess
	levelWarn
	levelError
)

var (
	debugEnabled atomic.Bool
	output       = log.New(color.Output, "", log.LstdFlags)

	labels = map[level]string{
		levelDebug:   color.New(color.FgMagenta).Sprint("DEBUG"),
		levelInfo:    color.New(color.FgCyan).Sprint("INFO "),
		levelSuccess: color.New(color.FgGreen).Sprint("OK   "),
		levelWarn:    color.New(color.FgYellow).Sprint("WARN "),
		levelError:   color.New(color.FgRed, color.Bold).Sprint("ERROR"),
	}
	prefixColor = color.New(color.FgBlue, color.Bold)
)

func init() {
	debugEnabled.Store(strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"))
}

// SetDebug toggles debug output for every logger.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetOutput redirects every logger, mostly useful in tests. A nil writer
// restores the default colored stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = color.Output
	}
	output.SetOutput(w)
}

// Logger is a named, colored logger. The name is printed in front of every
// line so output from different components can be told apart.
type Logger struct {
	name string
}

func New(name string) *Logger {
	return &Logger{name: strings.ToUpper(name)}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	l.print(levelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.print(levelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.print(levelSuccess, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.print(levelWarn, fmt.Sprintf(format, args...))
}

// Error logs msg with the causing error and returns an error wrapping it:
//
//	return log.Error("failed to load draft", err)
//
// err may be nil, in which case msg alone is logged and returned.
func (l *Logger) Error(msg string, err error) error {
	text := msg
	if err != nil {
		text = msg + ": " + err.Error()
	}
	l.print(levelError, text)
	return &loggedError{text: text, cause: err}
}

// Errorf logs a formatted message and returns it as an error. A %w verb
// wraps its operand as with fmt.Errorf.
func (l *Logger) Errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	l.print(levelError, err.Error())
	return err
}

func (l *Logger) print(lvl level, text string) {
	output.Printf("%s %s %s", labels[lvl], prefixColor.Sprintf("[%s]", l.name), text)
}

type loggedError struct {
	text  string
	cause error
}

func (e *loggedError) Error() string { return e.text }

func (e *loggedError) Unwrap() error { return e.cause }
