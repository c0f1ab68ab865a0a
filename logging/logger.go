package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// LogLevel is a user facing level decoupled from slog. It implements
// slog.Leveler so it can be handed to a handler directly.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Level implements slog.Leveler.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a configuration string (debug, info, warn, error) to a LogLevel.
// Unknown values fall back to LogLevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is the logging surface every smartpup component depends on. Args
// are slog style alternating keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.Logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.Logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// PupLogger is the built-in Logger. ForRun scopes it to one pup run so every
// entry of that run carries the pup name and run id.
type PupLogger struct {
	logger *slog.Logger
}

// LoggerConfig configures construction of a PupLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	// Attrs are attached to every entry.
	Attrs map[string]any
}

// DefaultLoggerConfig returns a JSON, info level configuration writing to stderr.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stderr, AddSource: true}
}

// NewLogger builds a PupLogger from cfg, or from DefaultLoggerConfig when nil.
func NewLogger(cfg *LoggerConfig) *PupLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	for k, v := range cfg.Attrs {
		logger = logger.With(k, v)
	}

	return &PupLogger{logger: logger}
}

// NewSlogLogger creates a PupLogger with the given level, format ("json" or
// "text") and source annotation.
func NewSlogLogger(level LogLevel, format string, addSource bool) *PupLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

// With returns a logger that adds args to every entry.
func (l *PupLogger) With(args ...any) *PupLogger {
	return &PupLogger{logger: l.logger.With(args...)}
}

// ForRun scopes the logger to a single run of the named pup.
func (l *PupLogger) ForRun(pupName, runID string) *PupLogger {
	return l.With("component", "pup", "pup", pupName, "run_id", runID)
}

func (l *PupLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *PupLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *PupLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *PupLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// ErrorWithStack logs err together with the stack of the calling goroutine.
// Called from a deferred recover it captures the panicking handler's frames.
func (l *PupLogger) ErrorWithStack(err error, msg string, args ...any) {
	stack := make([]byte, 8192)
	n := runtime.Stack(stack, false)

	attrs := make([]any, 0, len(args)+6)
	attrs = append(attrs,
		"error", err.Error(),
		"error_type", fmt.Sprintf("%T", err),
		"stack_trace", string(stack[:n]),
	)
	l.logger.Error(msg, append(attrs, args...)...)
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}
