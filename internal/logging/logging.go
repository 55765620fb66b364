// ABOUTME: Structured logging setup built on charmbracelet/log.
// ABOUTME: Provides a process-wide logger plus component-scoped children.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	Level  string
	JSON   bool
	Prefix string
}

var (
	mu     sync.RWMutex
	global = log.NewWithOptions(io.Discard, log.Options{})
)

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logOpts := log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	}
	if opts.JSON {
		logOpts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, logOpts), nil
}

// ParseLevel maps debug, info, warn and error to a level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Setup replaces the process-wide logger.
func Setup(w io.Writer, opts Options) error {
	l, err := New(w, opts)
	if err != nil {
		return err
	}
	mu.Lock()
	global = l
	mu.Unlock()
	return nil
}

// L returns the process-wide logger. It discards output until Setup is called.
func L() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component returns a child of the process-wide logger tagged with name.
func Component(name string) *log.Logger {
	return L().With("component", name)
}
