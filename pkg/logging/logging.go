// Package logging provides the logging interfaces used across netreq and
// adapters for log, log/slog and logrus.
package logging

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is a printf-style logger, compatible with *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// StructuredLogger is the leveled logger used by the dispatcher and the
// transport. Arguments are alternating key-value pairs, as with log/slog.
type StructuredLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// OrNop returns l, or NopLogger when l is nil.
func OrNop(l StructuredLogger) StructuredLogger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// printfLoggerWrapper adapts a Logger to StructuredLogger.
type printfLoggerWrapper struct {
	logger Logger
}

// WrapPrintfLogger wraps a printf-style Logger. Every level is printed with
// a [LEVEL] prefix and the key-value pairs appended.
//
//	logger := logging.WrapPrintfLogger(log.Default())
func WrapPrintfLogger(l Logger) StructuredLogger {
	return &printfLoggerWrapper{logger: l}
}

// WrapStdLogger is WrapPrintfLogger for a *log.Logger.
func WrapStdLogger(l *log.Logger) StructuredLogger {
	return &printfLoggerWrapper{logger: l}
}

func (w *printfLoggerWrapper) Debug(msg string, args ...any) {
	w.logger.Printf("%s", "[DEBUG] "+msg+formatArgs(args))
}

func (w *printfLoggerWrapper) Info(msg string, args ...any) {
	w.logger.Printf("%s", "[INFO] "+msg+formatArgs(args))
}

func (w *printfLoggerWrapper) Warn(msg string, args ...any) {
	w.logger.Printf("%s", "[WARN] "+msg+formatArgs(args))
}

func (w *printfLoggerWrapper) Error(msg string, args ...any) {
	w.logger.Printf("%s", "[ERROR] "+msg+formatArgs(args))
}

var _ StructuredLogger = (*printfLoggerWrapper)(nil)

// formatArgs renders key-value pairs as " | k=v k=v". A trailing key
// without a value is dropped.
func formatArgs(args []any) string {
	if len(args) < 2 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" |")
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}

// NopLogger discards all log messages.
type NopLogger struct{}

// Printf implements Logger.
func (NopLogger) Printf(format string, v ...any) {}

// Debug implements StructuredLogger.
func (NopLogger) Debug(msg string, args ...any) {}

// Info implements StructuredLogger.
func (NopLogger) Info(msg string, args ...any) {}

// Warn implements StructuredLogger.
func (NopLogger) Warn(msg string, args ...any) {}

// Error implements StructuredLogger.
func (NopLogger) Error(msg string, args ...any) {}

var (
	_ Logger           = NopLogger{}
	_ StructuredLogger = NopLogger{}
)

// SlogAdapter adapts a *slog.Logger to StructuredLogger.
//
//	logger := logging.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger means slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements StructuredLogger.
func (a *SlogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }

// Info implements StructuredLogger.
func (a *SlogAdapter) Info(msg string, args ...any) { a.logger.Info(msg, args...) }

// Warn implements StructuredLogger.
func (a *SlogAdapter) Warn(msg string, args ...any) { a.logger.Warn(msg, args...) }

// Error implements StructuredLogger.
func (a *SlogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }

// With returns an adapter with the given attributes added.
func (a *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: a.logger.With(args...)}
}

// LogrusAdapter adapts a logrus.FieldLogger to StructuredLogger. Key-value
// pairs become logrus fields.
type LogrusAdapter struct {
	logger logrus.FieldLogger
}

// NewLogrusAdapter wraps logger. A nil logger means logrus.StandardLogger().
func NewLogrusAdapter(logger logrus.FieldLogger) *LogrusAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusAdapter{logger: logger}
}

func (a *LogrusAdapter) entry(args []any) logrus.FieldLogger {
	if len(args) < 2 {
		return a.logger
	}
	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return a.logger.WithFields(fields)
}

// Debug implements StructuredLogger.
func (a *LogrusAdapter) Debug(msg string, args ...any) { a.entry(args).Debug(msg) }

// Info implements StructuredLogger.
func (a *LogrusAdapter) Info(msg string, args ...any) { a.entry(args).Info(msg) }

// Warn implements StructuredLogger.
func (a *LogrusAdapter) Warn(msg string, args ...any) { a.entry(args).Warn(msg) }

// Error implements StructuredLogger.
func (a *LogrusAdapter) Error(msg string, args ...any) { a.entry(args).Error(msg) }

var (
	_ StructuredLogger = (*SlogAdapter)(nil)
	_ StructuredLogger = (*LogrusAdapter)(nil)
)

// MaskAuthHeader masks an Authorization header value for safe logging,
// keeping only the scheme.
func MaskAuthHeader(header string) string {
	if scheme, _, ok := strings.Cut(header, " "); ok && scheme != "" {
		return scheme + " ********"
	}
	return "********"
}
