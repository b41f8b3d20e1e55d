// Package log is a minimal leveled logger for the formatter and its CLI.
// Output goes to stderr so formatted text on stdout stays clean.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity of a message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel           = LevelWarn
)

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetLevel sets the minimum level that will be written.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// Debug logs verbose diagnostic detail, off by default.
func Debug(format string, args ...any) { write(LevelDebug, format, args...) }

// Info logs notable operational events.
func Info(format string, args ...any) { write(LevelInfo, format, args...) }

// Warn logs recoverable conditions, such as an unknown node kind.
func Warn(format string, args ...any) { write(LevelWarn, format, args...) }

// Error logs failures that abort formatting of a document.
func Error(format string, args ...any) { write(LevelError, format, args...) }

func write(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel || output == nil {
		return
	}
	fmt.Fprintf(output, "[bladefmt] %s: "+format+"\n", append([]any{level.String()}, args...)...)
}
