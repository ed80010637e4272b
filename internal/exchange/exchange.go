// Package exchange reads and writes the planner's JSON document:
// {"tasks": [...], "scheduledTasks": [...]}.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/javiermolinar/semana/internal/task"
)

// ErrInvalidFormat is returned when a document is not a planner export.
var ErrInvalidFormat = fmt.Errorf("%w: invalid file format", task.ErrValidation)

// Encode renders a snapshot as indented JSON with a trailing newline.
// Nil slices are written as empty arrays.
func Encode(s task.Snapshot) ([]byte, error) {
	if s.Tasks == nil {
		s.Tasks = []task.Task{}
	}
	if s.ScheduledTasks == nil {
		s.ScheduledTasks = []task.ScheduledTask{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a planner document. Both "tasks" and "scheduledTasks" must
// be present and be arrays.
func Decode(data []byte) (task.Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return task.Snapshot{}, fmt.Errorf("%w: not valid JSON", ErrInvalidFormat)
	}
	for _, key := range []string{"tasks", "scheduledTasks"} {
		if !gjson.GetBytes(data, key).IsArray() {
			return task.Snapshot{}, fmt.Errorf("%w: %q must be an array", ErrInvalidFormat, key)
		}
	}

	var s task.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return task.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s, nil
}

// ExportFileName returns the default export name for the given day,
// e.g. planner-data-2026-10-19.json.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("planner-data-%s.json", now.Format("2006-01-02"))
}

// WriteFile encodes s to path.
func WriteFile(path string, s task.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the document at path.
func ReadFile(path string) (task.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return task.Snapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data)
}

// IsInvalidFormat reports whether err came from a malformed document.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
