// Package debug holds the process-wide structured logger. Nothing is
// written until Setup or Init enables it.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Format selects the log line encoding.
type Format string

const (
	// TextFormat writes key=value lines.
	TextFormat Format = "text"
	// JSONFormat writes one JSON object per line.
	JSONFormat Format = "json"
)

// Options configures the logger.
type Options struct {
	Enabled bool
	// Level is the minimum level written. The zero value is slog.LevelInfo.
	Level slog.Level
	// Format defaults to TextFormat.
	Format Format
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.DiscardHandler)
	enabled bool
)

// Setup replaces the logger. A disabled logger discards every record.
func Setup(o Options) error {
	var h slog.Handler = slog.DiscardHandler
	if o.Enabled {
		w := o.Writer
		if w == nil {
			w = os.Stderr
		}
		opts := &slog.HandlerOptions{Level: o.Level}
		switch o.Format {
		case "", TextFormat:
			h = slog.NewTextHandler(w, opts)
		case JSONFormat:
			h = slog.NewJSONHandler(w, opts)
		default:
			return fmt.Errorf("unknown log format %q (want text or json)", o.Format)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(h)
	enabled = o.Enabled
	return nil
}

// Init enables debug-level text logging to stderr, or turns logging off.
func Init(enable bool) {
	_ = Setup(Options{Enabled: enable, Level: slog.LevelDebug})
}

// Enabled reports whether logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns the logger tagged with component=name.
func Component(name string) *slog.Logger {
	return Logger().With("component", name)
}

// Debug logs msg at debug level on the package logger.
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

// Info logs msg at info level on the package logger.
func Info(msg string, args ...any) { Logger().Info(msg, args...) }

// Warn logs msg at warn level on the package logger.
func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

// Error logs msg at error level on the package logger.
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
