package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Debug("hidden")
	WithOperation(logger, "schedule").Info("placed", TaskID("abc"), Cell(1, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry[KeyOperation] != "schedule" {
		t.Errorf("expected operation schedule, got %v", entry[KeyOperation])
	}
	if entry[KeyTaskID] != "abc" {
		t.Errorf("expected task_id abc, got %v", entry[KeyTaskID])
	}
	cell, ok := entry["cell"].(map[string]any)
	if !ok || cell[KeyDay] != float64(1) || cell[KeySlot] != float64(2) {
		t.Errorf("unexpected cell attribute: %v", entry["cell"])
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&buf, "info", FormatText)

	logger.Info("nil error", Err(nil))
	if strings.Contains(buf.String(), KeyError) {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}

	buf.Reset()
	logger.Info("real error", Err(errors.New("boom")))
	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("expected error=boom, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Should not panic
	Discard().Error("dropped")
}
