// Package logging is the slog setup shared by seqmod commands. Logs go to
// stderr so that reports printed on stdout stay machine readable, and every
// line written during one command carries that command's batch id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// BatchIDKey holds the id of the command invocation in a context.
const BatchIDKey ContextKey = "batch_id"

var defaultLogger *slog.Logger

func init() {
	InitLogger(LevelWarn, FormatText)
}

// Level is a configured log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// Format is a log line encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// ParseLevel maps a log_level setting to a Level. Unknown names map to
// LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// ParseFormat maps a log_format setting to a Format. Anything but "text"
// is JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "text") {
		return FormatText
	}
	return FormatJSON
}

// InitLogger sends logs to stderr.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo replaces the global logger. Timestamps are RFC3339 without
// fractional seconds.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	slogLevel, ok := slogLevels[level]
	if !ok {
		slogLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func GetLogger() *slog.Logger {
	return defaultLogger
}

func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, BatchIDKey, batchID)
}

// GetBatchID returns the batch id of ctx, or "" outside a command.
func GetBatchID(ctx context.Context) string {
	batchID, _ := ctx.Value(BatchIDKey).(string)
	return batchID
}

// LoggerFromContext returns the global logger tagged with the batch id of
// ctx, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if batchID := GetBatchID(ctx); batchID != "" {
		return defaultLogger.With(string(BatchIDKey), batchID)
	}
	return defaultLogger
}

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// Domain events. Each takes its fixed attributes followed by any extra
// key-value pairs.

func event(logger *slog.Logger, level slog.Level, name string, fixed, extra []any) {
	logger.Log(context.Background(), level, name, append(fixed, extra...)...)
}

// TableLoaded records an organism table load.
func TableLoaded(source string, entries int, fingerprint string, args ...any) {
	event(defaultLogger, slog.LevelInfo, "table_loaded",
		[]any{"source", source, "entries", entries, "fingerprint", fingerprint}, args)
}

// DefectReported records one defect found by a check.
func DefectReported(ctx context.Context, class, id, detail string, args ...any) {
	event(LoggerFromContext(ctx), slog.LevelWarn, "defect_reported",
		[]any{"class", class, "id", id, "detail", detail}, args)
}

// DefaultsApplied records one bulk defaulting pass.
func DefaultsApplied(ctx context.Context, modifier, value string, changed int, args ...any) {
	event(LoggerFromContext(ctx), slog.LevelInfo, "defaults_applied",
		[]any{"modifier", modifier, "value", value, "changed", changed}, args)
}
