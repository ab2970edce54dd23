// Package logging builds the zerolog loggers used across the service.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	global = New(os.Stderr, "info", "console")
)

// New returns a logger writing to w at the named level. format "console"
// renders human readable lines, anything else emits JSON.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(level))
}

// ParseLevel maps a config value to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// L returns the process-wide logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// Set replaces the process-wide logger.
func Set(l zerolog.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// SetLevel changes the level of the process-wide logger in place.
func SetLevel(level string) {
	mu.Lock()
	global = global.Level(ParseLevel(level))
	mu.Unlock()
}

// Component returns a child of the process-wide logger tagged with component.
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}
