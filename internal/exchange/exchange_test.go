package exchange

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/semana/internal/task"
)

func sample() task.Snapshot {
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	updated := created.Add(90 * time.Minute)
	origin := "t-1"
	return task.Snapshot{
		Tasks: []task.Task{
			{ID: "t-2", Title: "Email", Category: task.CategoryWork, Priority: task.PriorityLow, Duration: 20, Color: "#3b82f6", CreatedAt: created},
			{ID: "t-3", Title: "Run", Description: "5k", Category: task.CategoryHealth, Priority: task.PriorityHigh, Duration: 45, Color: "#10b981", CreatedAt: created, UpdatedAt: &updated},
		},
		ScheduledTasks: []task.ScheduledTask{
			{Task: task.Task{ID: "s-9", Title: "Gym", Category: task.CategoryHealth, Priority: task.PriorityMedium, Duration: 60, Color: "#ef4444", CreatedAt: created}, TaskID: &origin, Day: 1, StartSlot: 0, EndSlot: 2},
			{Task: task.Task{ID: "s-1", Title: "Gym", Category: task.CategoryHealth, Priority: task.PriorityMedium, Duration: 60, Color: "#ef4444", CreatedAt: created}, Day: 3, StartSlot: 0, EndSlot: 2},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	first, err := Encode(sample())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(first)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := Encode(decoded)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", first, second)
	}

	if decoded.ScheduledTasks[0].ID != "s-9" || decoded.Tasks[0].ID != "t-2" {
		t.Error("order not preserved")
	}
	if decoded.ScheduledTasks[1].TaskID != nil {
		t.Error("expected null taskId to decode as nil")
	}
}

func TestEncode_EmptyArrays(t *testing.T) {
	data, err := Encode(task.Snapshot{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "{\n  \"tasks\": [],\n  \"scheduledTasks\": []\n}\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestDecode_BrowserExport(t *testing.T) {
	data := []byte(`{
		"tasks": [{"id":"lq1x9k2abc","title":"Estudar","category":"education","priority":"high","duration":40,"color":"#3b82f6","createdAt":"2024-03-01T12:00:00.000Z"}],
		"scheduledTasks": [{"id":"lq1x9zz","taskId":"lq1x9k2abc","title":"Ler","category":"other","priority":"low","duration":20,"color":"#3b82f6","createdAt":"2024-03-01T12:00:00.000Z","day":0,"startSlot":3,"endSlot":3}]
	}`)
	s, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s.Tasks) != 1 || s.Tasks[0].Category != task.CategoryEducation {
		t.Errorf("unexpected tasks: %+v", s.Tasks)
	}
	st := s.ScheduledTasks[0]
	if st.TaskID == nil || *st.TaskID != "lq1x9k2abc" || st.StartSlot != 3 {
		t.Errorf("unexpected scheduled task: %+v", st)
	}
}

func TestDecode_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"tasks": [`},
		{"missing scheduled", `{"tasks": []}`},
		{"tasks not array", `{"tasks": {}, "scheduledTasks": []}`},
		{"scheduled is null", `{"tasks": [], "scheduledTasks": null}`},
		{"array root", `[]`},
		{"wrong field type", `{"tasks": [{"duration": "long"}], "scheduledTasks": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
			if !errors.Is(err, task.ErrValidation) {
				t.Errorf("expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestExportFileName(t *testing.T) {
	got := ExportFileName(time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC))
	if got != "planner-data-2026-10-19.json" {
		t.Errorf("got %s", got)
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(s.Tasks) != 2 || len(s.ScheduledTasks) != 2 {
		t.Errorf("unexpected sizes: %d, %d", len(s.Tasks), len(s.ScheduledTasks))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileRepo(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "planner.json")
	repo, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("NewFileRepo failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	empty, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if empty.Tasks == nil || len(empty.Tasks) != 0 {
		t.Errorf("expected empty non-nil tasks, got %+v", empty.Tasks)
	}

	if err := repo.Save(ctx, sample()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.ScheduledTasks) != 2 {
		t.Errorf("expected 2 scheduled, got %d", len(got.ScheduledTasks))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the data file, found %d entries", len(entries))
	}
}

func TestFileRepo_CancelledContext(t *testing.T) {
	repo, err := NewFileRepo(filepath.Join(t.TempDir(), "p.json"))
	if err != nil {
		t.Fatalf("NewFileRepo failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Save(ctx, sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
