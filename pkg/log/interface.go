// Package log provides the structured logging interface used by fraudtree.
//
// The Logger interface is a small, slog-compatible surface so the training pipeline can
// log through either the standard library's log/slog (JSON) or rs/zerolog (console)
// without knowing which one is active. ML-specific attribute keys live in attributes.go.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "FastTreeClassifier",
//	    log.RunIDKey, runID,
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 227846,
//	    log.FeaturesKey, 28,
//	)
package log

import (
	"context"
	"strings"
	"sync"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key-value pairs. Values that implement error are rendered with
// their message, and with a stack trace when the backend supports it.
type Logger interface {
	// Debug logs detailed diagnostic information, usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs general progress of the pipeline.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the run, such as undefined metrics.
	Warn(msg string, fields ...any)

	// Error logs failures. Pass the error under the "error" key:
	//
	//	logger.Error("Training failed", "error", err, log.OperationKey, log.OperationFit)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewConfigurationError("log_level", "must be one of debug, info, warn, error", s)
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetLogger replaces the package-level logger returned by GetLogger.
func SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// GetLogger returns the package-level logger. It discards everything until SetLogger
// is called.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the package-level logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// RouteWarnings sends warnings raised through errors.Warn to l at warn level.
func RouteWarnings(l Logger) {
	errors.SetZerologWarnFunc(func(w error) {
		l.Warn(w.Error(), ErrorTypeKey, warningType(w))
	})
}

func warningType(w error) string {
	var umw *errors.UndefinedMetricWarning
	if errors.As(w, &umw) {
		return "UndefinedMetricWarning"
	}
	return "Warning"
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                {}
func (nopLogger) Info(string, ...any)                 {}
func (nopLogger) Warn(string, ...any)                 {}
func (nopLogger) Error(string, ...any)                {}
func (n nopLogger) With(...any) Logger                { return n }
func (nopLogger) Enabled(context.Context, Level) bool { return false }
