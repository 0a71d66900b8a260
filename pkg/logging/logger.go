package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/mattn/go-isatty"
)

var ErrUnknownLevel = errors.New("unknown log level")

const header = "${time_rfc3339} ${level}"

// Logger is a levelled logger. It implements core.Logger, with Printf
// logging at info level.
type Logger struct {
	log  *log.Logger
	file *os.File
}

// ParseLevel converts a level name to a log level
func ParseLevel(levelStr string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("%w: %q", ErrUnknownLevel, levelStr)
	}
}

// NewLogger creates a console logger. Unknown levels fall back to info.
func NewLogger(levelStr string) *Logger {
	return newLogger(levelStr, os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
}

// NewWriterLogger creates a logger writing uncolored output to w
func NewWriterLogger(levelStr string, w io.Writer) *Logger {
	return newLogger(levelStr, w, false)
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(levelStr, file, false)
	logger.file = file
	return logger, nil
}

// NewMultiLogger creates a logger that writes to both console and file
func NewMultiLogger(levelStr, filePath string) (*Logger, error) {
	file, err := openLogFile(filePath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(levelStr, io.MultiWriter(os.Stdout, file), false)
	logger.file = file
	return logger, nil
}

func newLogger(levelStr string, w io.Writer, colors bool) *Logger {
	level, _ := ParseLevel(levelStr)

	l := log.New("raytracer")
	l.SetHeader(header)
	l.SetLevel(level)
	l.SetOutput(w)
	if colors {
		l.EnableColor()
	} else {
		l.DisableColor()
	}
	return &Logger{log: l}
}

func openLogFile(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// SetLevel changes the minimum level that is written
func (l *Logger) SetLevel(levelStr string) error {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	l.log.SetLevel(level)
	return nil
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(trimNewline(format), args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log.Infof(trimNewline(format), args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log.Warnf(trimNewline(format), args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(trimNewline(format), args...)
}

// Printf logs at info level
func (l *Logger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// the underlying logger terminates every entry itself
func trimNewline(format string) string {
	return strings.TrimRight(format, "\n")
}
