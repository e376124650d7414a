package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin key/value front end over zerolog.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
}

type Option func(*Logger) error

// WithConsole writes human-readable output to stderr.
func WithConsole() Option {
	return func(l *Logger) error {
		l.zlog = l.zlog.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		return nil
	}
}

// WithLevel sets the minimum logging level.
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) error {
		l.zlog = l.zlog.Level(level)
		return nil
	}
}

// WithWriter sends structured JSON output to w.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) error {
		l.zlog = l.zlog.Output(w)
		return nil
	}
}

// WithFile appends plain console-formatted output to the file at path.
func WithFile(path string) Option {
	return func(l *Logger) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		l.zlog = l.zlog.Output(zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		return nil
	}
}

// New creates a logger. Without options it writes JSON lines to stderr at info level.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{
		zlog: zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply logger option: %w", err)
		}
	}
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

// With returns a child logger that always carries the given fields.
func (l *Logger) With(fields ...interface{}) *Logger {
	ctx := l.zlog.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &Logger{zlog: ctx.Logger()}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.emit(l.zlog.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.zlog.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.zlog.Warn(), msg, fields)
}

// Error logs msg with err attached. err may be nil.
func (l *Logger) Error(msg string, err error, fields ...interface{}) {
	event := l.zlog.Error()
	if err != nil {
		event = event.Err(err)
	}
	l.emit(event, msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []interface{}) {
	if event == nil {
		return
	}
	event = addSourceContext(event)
	logFields(event, fields...)
	event.Msg(msg)
}

// addSourceContext adds file and line information of the caller.
func addSourceContext(e *zerolog.Event) *zerolog.Event {
	_, file, line, ok := runtime.Caller(3)
	if ok {
		return e.Str("file", filepath.Base(file)).Int("line", line)
	}
	return e
}

func logFields(event *zerolog.Event, fields ...interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
}
