package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// SetOutput redirects debug and warning output. It returns the previous
// writer so tests can restore it.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// SetVerbose turns debug output on regardless of TODO_DEBUG.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// DebugEnabled returns true if debug mode is enabled via the TODO_DEBUG
// environment variable or SetVerbose.
func DebugEnabled() bool {
	mu.Lock()
	v := verbose
	mu.Unlock()
	return v || os.Getenv("TODO_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		write(fmt.Sprintf(format, args...))
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		write(fmt.Sprintln(args...))
	}
}

// Warnf reports a recoverable failure. It is always printed.
func Warnf(format string, args ...interface{}) {
	write("warning: " + fmt.Sprintf(format, args...) + "\n")
}

func write(s string) {
	mu.Lock()
	defer mu.Unlock()
	io.WriteString(out, s)
}
