// Package logctx provides zerolog logger construction and context-based
// logger propagation for memprobe.
//
// The CLI builds one logger from its flags and attaches it to the command
// context; library code receives it either from the context or as an
// explicit option:
//
//	ctx := logctx.WithLogger(ctx, logctx.New(logctx.Config{Human: true}))
//	probe := memprobe.New(memprobe.WithLogger(logctx.FromContext(ctx)))
package logctx

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// loggerKey is the private key type for storing loggers in context.
type loggerKey struct{}

var (
	defaultMu     sync.RWMutex
	defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Config selects the logger output.
type Config struct {
	// Debug lowers the level from Info to Debug.
	Debug bool

	// Human switches from JSON lines to zerolog's console writer.
	Human bool

	// Out is the destination. Defaults to os.Stderr.
	Out io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Human {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// DefaultLogger returns the process-wide logger used when no logger was
// supplied. It writes JSON to stderr with timestamps.
func DefaultLogger() zerolog.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(l zerolog.Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context. If the context is nil
// or does not contain a logger, returns the default logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithComponent returns a context whose logger tags every event with the
// component name.
func WithComponent(ctx context.Context, name string) context.Context {
	logger := FromContext(ctx).With().Str("component", name).Logger()
	return WithLogger(ctx, logger)
}
