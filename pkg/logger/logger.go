// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

// New creates a new Logger instance.
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level == slog.LevelDebug,
		ReplaceAttr: sanitizeAttr, // Mask sensitive data
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// sensitiveKeys contains keys that should be masked in logs.
var sensitiveKeys = map[string]bool{
	"password":          true,
	"secret":            true,
	"token":             true,
	"authorization":     true,
	"api_key":           true,
	"apikey":            true,
	"dsn":               true,
	"connection_string": true,
	"database_url":      true,
	"db_password":       true,
	"redis_password":    true,
	"credential":        true,
	"credentials":       true,
}

// sanitizeAttr masks sensitive values in log attributes.
func sanitizeAttr(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)

	if sensitiveKeys[key] {
		return slog.String(a.Key, "[REDACTED]")
	}

	for sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}

	return a
}

// NewDefault creates a new Logger with default configuration.
func NewDefault() *Logger {
	return New(DefaultConfig())
}

// NewDevelopment creates a logger configured for development.
func NewDevelopment() *Logger {
	return New(Config{
		Level:  "debug",
		Format: "text",
		Output: os.Stdout,
	})
}

// NewNop creates a no-op logger that discards all output.
// Useful for testing or when logging is not needed.
func NewNop() *Logger {
	return New(Config{
		Level:  "error", // Only errors (which we won't emit)
		Format: "json",
		Output: io.Discard,
	})
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// ContextKey is the type for context values owned by this package.
type ContextKey string

// ContextKeyRequestID carries the per-request correlation ID.
const ContextKeyRequestID ContextKey = "request_id"

// WithContext returns a new Logger carrying the request ID from ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok && requestID != "" {
		return l.With("request_id", requestID)
	}
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
