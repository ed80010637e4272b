// Package logging provides structured logging helpers for semana.
//
// Loggers are plain *slog.Logger values. This package builds them from
// configuration and keeps attribute names consistent:
//
//	logger := logging.WithOperation(base, "schedule")
//	logger.Warn("placement rejected", logging.TaskID(id), logging.Err(err))
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation = "operation"
	KeyTaskID    = "task_id"
	KeyDay       = "day"
	KeySlot      = "slot"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Format selects the slog handler.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel converts a config string into a slog level.
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

// New creates a logger writing to w.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// TaskID returns a slog attribute for a task or instance id.
func TaskID(id string) slog.Attr {
	return slog.String(KeyTaskID, id)
}

// Cell returns the grid coordinates as a group attribute.
func Cell(day, slot int) slog.Attr {
	return slog.Group("cell", slog.Int(KeyDay, day), slog.Int(KeySlot, slot))
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
