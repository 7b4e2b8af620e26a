// Package logging provides the application logger. The TUI owns stdout,
// so log output goes to a file under the data directory by default.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level's log prefix.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Logger writes leveled, timestamped lines to a single destination.
type Logger struct {
	level  Level
	out    *log.Logger
	closer io.Closer
}

// Option configures a Logger.
type Option func(*Logger)

// WithLevel sets the minimum level that is written.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithWriter directs output to an arbitrary writer, mainly for tests.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) { l.out = log.New(w, "", 0) }
}

// New creates a logger writing to the given file path. The parent
// directory is created when missing. An empty path discards output.
func New(path string, opts ...Option) (*Logger, error) {
	l := &Logger{level: LevelInfo, out: log.New(io.Discard, "", 0)}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.out = log.New(f, "", 0)
		l.closer = f
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.out.Printf("%s [%s] %s", ts, level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// Nop returns a logger that drops everything, for tests and callers that
// have no logging destination.
func Nop() *Logger {
	return &Logger{level: LevelError + 1, out: log.New(io.Discard, "", 0)}
}
