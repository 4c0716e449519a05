// Package logging creates the slog loggers that applications embedding the
// queue pass into queue.Options. It picks a handler based on the destination:
// JSON when requested, colored output when writing to a TTY, plain text
// otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// ParseLevel converts a level name to a slog.Level.
// An empty string defaults to info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info": // Also default log level
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, NewInvalidLevelError(level)
	}
}

// InvalidLevelError is returned by ParseLevel for unrecognized level names.
type InvalidLevelError struct {
	level string
}

// NewInvalidLevelError returns a new InvalidLevelError.
func NewInvalidLevelError(level string) *InvalidLevelError {
	return &InvalidLevelError{
		level: level,
	}
}

// Error implements the error interface
func (e *InvalidLevelError) Error() string {
	return "invalid log level: '" + e.level + "'"
}

// NewLoggerOpts contains options for the NewLogger method
type NewLoggerOpts struct {
	// Log level: "debug", "info", "warn", "error", or an empty string (defaults to "info")
	Level string
	// If true, logs as JSON by default
	JSON bool
	// Destination for logs.
	// This is optional, and defaults to os.Stdout.
	Writer io.Writer

	AppName string
}

// NewLogger returns a configured slog logger.
func NewLogger(opts NewLoggerOpts) (*slog.Logger, error) {
	// Get the level
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	// Create the handler
	var handler slog.Handler
	switch {
	case opts.JSON:
		// Log as JSON if configured
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	case isTerminal(w):
		// Enable colors if we have a TTY
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.StampMilli,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	log := slog.New(handler)
	if opts.AppName != "" {
		log = log.With(slog.String("app", opts.AppName))
	}

	return log, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
