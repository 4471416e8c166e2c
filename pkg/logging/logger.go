// Package logging provides the structured logger used across dirtyfx.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/odvcencio/dirtyfx/pkg/errors"
)

// Logger is a JSON slog logger whose level can be changed while running.
// Loggers derived with the With helpers share the level.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a logger writing JSON lines to w.
func New(w io.Writer, component string, level slog.Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "dirtyfx"),
	)
	return &Logger{Logger: logger, level: lv}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "discard", slog.LevelError)
}

// Open creates a logger appending to the file at path. The returned closer
// closes the file.
func Open(path, component string, level slog.Level) (*Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, component, level), f, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel changes the minimum level for this logger and everything derived
// from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), level: l.level}
}

// WithContext returns a logger carrying the trace and span IDs of the span
// in ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return l.with(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

// WithForm returns a logger with form-specific fields.
func (l *Logger) WithForm(form, recordID string) *Logger {
	return l.with(
		slog.String("form", form),
		slog.String("record_id", recordID),
	)
}

// FormLoaded logs a completed load.
func (l *Logger) FormLoaded(recordID string, elapsed time.Duration) {
	l.Info("form loaded",
		slog.String("record_id", recordID),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	)
}

// FormSaved logs a save and the fields that were dirty.
func (l *Logger) FormSaved(recordID string, dirtyFields []string) {
	l.Info("form saved",
		slog.String("record_id", recordID),
		slog.Any("dirty_fields", dirtyFields),
	)
}

// FormReset logs a cancel that discarded edits.
func (l *Logger) FormReset(recordID string, members int) {
	l.Info("form reset",
		slog.String("record_id", recordID),
		slog.Int("members", members),
	)
}

// DirtyChanged logs a transition of the form-level dirty flag.
func (l *Logger) DirtyChanged(form string, dirty bool) {
	l.Debug("dirty changed",
		slog.String("form", form),
		slog.Bool("dirty", dirty),
	)
}

// LoadFailed logs a failed background load.
func (l *Logger) LoadFailed(recordID string, err error) {
	l.failed("form load failed", recordID, err)
}

// SaveFailed logs a failed save.
func (l *Logger) SaveFailed(recordID string, err error) {
	l.failed("form save failed", recordID, err)
}

// failed logs err at error level. Coded errors add their code and whether
// they are retryable; the stack is only written at debug level.
func (l *Logger) failed(msg, recordID string, err error) {
	attrs := []any{
		slog.String("record_id", recordID),
		slog.String("error", err.Error()),
	}
	if coded, ok := apperrors.As(err); ok {
		attrs = append(attrs,
			slog.String("code", string(coded.Code)),
			slog.Bool("retryable", coded.IsRetryable()),
		)
		if l.Enabled(context.Background(), slog.LevelDebug) && len(coded.Stack) > 0 {
			attrs = append(attrs, slog.String("stack", coded.StackTrace()))
		}
	}
	l.Error(msg, attrs...)
}
