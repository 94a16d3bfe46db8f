// package logger is a package that provides a structured logger that's
// context.Context aware.
package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Level is the severity of a log line.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	CRIT
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	case CRIT:
		return "crit"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level. Unknown names map to INFO.
func ParseLevel(lvl string) Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "crit", "critical":
		return CRIT
	default:
		return INFO
	}
}

// DefaultLogger is used by the package level functions when the
// context.Context doesn't carry a Logger.
var DefaultLogger Logger = New(log.New(os.Stdout, "", 0), INFO)

// Logger represents a structured leveled logger.
type Logger interface {
	Debug(msg string, pairs ...interface{})
	Info(msg string, pairs ...interface{})
	Warn(msg string, pairs ...interface{})
	Error(msg string, pairs ...interface{})
	Crit(msg string, pairs ...interface{})

	// With returns a Logger that prepends pairs to every line.
	With(pairs ...interface{}) Logger
}

// logger is an implementation of the Logger interface backed by the stdlib's
// logging facility.
type logger struct {
	*log.Logger
	level   Level
	context []interface{}
}

// New wraps the log.Logger to implement the Logger interface. Lines below
// level are dropped.
func New(l *log.Logger, level Level) Logger {
	return &logger{
		Logger: l,
		level:  level,
	}
}

// Log logs the pairs in logfmt. It will treat consecutive arguments as a key
// value pair.
func (l *logger) Log(level Level, msg string, pairs ...interface{}) {
	if level < l.level {
		return
	}
	m := l.message(append(l.context[:len(l.context):len(l.context)], pairs...)...)
	if m == "" {
		l.Println(fmt.Sprintf("status=%s", level), msg)
		return
	}
	l.Println(fmt.Sprintf("status=%s", level), msg, m)
}

func (l *logger) Debug(msg string, pairs ...interface{}) { l.Log(DEBUG, msg, pairs...) }
func (l *logger) Info(msg string, pairs ...interface{})  { l.Log(INFO, msg, pairs...) }
func (l *logger) Warn(msg string, pairs ...interface{})  { l.Log(WARN, msg, pairs...) }
func (l *logger) Error(msg string, pairs ...interface{}) { l.Log(ERROR, msg, pairs...) }
func (l *logger) Crit(msg string, pairs ...interface{})  { l.Log(CRIT, msg, pairs...) }

func (l *logger) With(pairs ...interface{}) Logger {
	return &logger{
		Logger:  l.Logger,
		level:   l.level,
		context: append(l.context[:len(l.context):len(l.context)], pairs...),
	}
}

func (l *logger) message(pairs ...interface{}) string {
	if len(pairs) == 1 {
		return fmt.Sprintf("%v", pairs[0])
	}

	var parts []string

	for i := 0; i < len(pairs); i += 2 {
		// This conditional means that the pairs are uneven and we've
		// reached the end of iteration. We treat the last value as a
		// simple string message. Given an input pair as:
		//
		//	["key", "value", "message"]
		//
		// The output will be:
		//
		//	key=value message
		if len(pairs) == i+1 {
			parts = append(parts, fmt.Sprintf("%v", pairs[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%v", pairs[i], pairs[i+1]))
		}
	}

	return strings.Join(parts, " ")
}

// WithLogger inserts a Logger into the provided context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns a Logger from the context.
func FromContext(ctx context.Context) (Logger, bool) {
	l, ok := ctx.Value(loggerKey).(Logger)
	return l, ok
}

func Info(ctx context.Context, msg string, pairs ...interface{}) {
	withLogger(ctx, func(l Logger) {
		l.Info(msg, pairs...)
	})
}

func Debug(ctx context.Context, msg string, pairs ...interface{}) {
	withLogger(ctx, func(l Logger) {
		l.Debug(msg, pairs...)
	})
}

func Warn(ctx context.Context, msg string, pairs ...interface{}) {
	withLogger(ctx, func(l Logger) {
		l.Warn(msg, pairs...)
	})
}

func Error(ctx context.Context, msg string, pairs ...interface{}) {
	withLogger(ctx, func(l Logger) {
		l.Error(msg, pairs...)
	})
}

func Crit(ctx context.Context, msg string, pairs ...interface{}) {
	withLogger(ctx, func(l Logger) {
		l.Crit(msg, pairs...)
	})
}

func withLogger(ctx context.Context, fn func(l Logger)) {
	if l, ok := FromContext(ctx); ok {
		fn(l)
		return
	}
	if DefaultLogger != nil {
		fn(DefaultLogger)
	}
}

type key int

const (
	loggerKey key = iota
)
