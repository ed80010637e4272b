package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/semana/internal/task"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleSnapshot() task.Snapshot {
	created := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	origin := "p1"
	return task.Snapshot{
		Tasks: []task.Task{
			{ID: "p2", Title: "Second", Category: task.CategoryWork, Priority: task.PriorityHigh, Duration: 40, Color: "#112233", CreatedAt: created},
			{ID: "p3", Title: "Third", Description: "notes", Category: task.CategoryOther, Priority: task.PriorityLow, Duration: 20, Color: "#445566", CreatedAt: created, UpdatedAt: &updated},
		},
		ScheduledTasks: []task.ScheduledTask{
			{Task: task.Task{ID: "s2", Title: "Copy", Category: task.CategoryHealth, Priority: task.PriorityMedium, Duration: 20, Color: "#000000", CreatedAt: created}, Day: 6, StartSlot: 10, EndSlot: 10},
			{Task: task.Task{ID: "s1", Title: "Linked", Category: task.CategoryHealth, Priority: task.PriorityMedium, Duration: 60, Color: "#000000", CreatedAt: created}, TaskID: &origin, Day: 0, StartSlot: 0, EndSlot: 2},
		},
	}
}

func TestLoad_Empty(t *testing.T) {
	repo := newTestRepo(t)

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Tasks == nil || snap.ScheduledTasks == nil {
		t.Error("expected non-nil empty slices")
	}
	if len(snap.Tasks) != 0 || len(snap.ScheduledTasks) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	want := sampleSnapshot()

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got.Tasks) != 2 || len(got.ScheduledTasks) != 2 {
		t.Fatalf("unexpected sizes: %d tasks, %d scheduled", len(got.Tasks), len(got.ScheduledTasks))
	}

	// Order is preserved, not sorted by id.
	if got.Tasks[0].ID != "p2" || got.ScheduledTasks[0].ID != "s2" {
		t.Errorf("order not preserved: %s, %s", got.Tasks[0].ID, got.ScheduledTasks[0].ID)
	}

	p3 := got.Tasks[1]
	if p3.Description != "notes" || p3.UpdatedAt == nil || !p3.UpdatedAt.Equal(*want.Tasks[1].UpdatedAt) {
		t.Errorf("task fields not preserved: %+v", p3)
	}
	if !p3.CreatedAt.Equal(want.Tasks[1].CreatedAt) {
		t.Errorf("createdAt not preserved: %v", p3.CreatedAt)
	}
	if got.Tasks[0].UpdatedAt != nil {
		t.Error("expected nil updatedAt")
	}

	if got.ScheduledTasks[0].TaskID != nil {
		t.Errorf("expected nil task id for copy, got %v", *got.ScheduledTasks[0].TaskID)
	}
	linked := got.ScheduledTasks[1]
	if linked.TaskID == nil || *linked.TaskID != "p1" {
		t.Errorf("expected task id p1, got %v", linked.TaskID)
	}
	if linked.Day != 0 || linked.StartSlot != 0 || linked.EndSlot != 2 || linked.Duration != 60 {
		t.Errorf("geometry not preserved: %+v", linked)
	}
}

func TestSave_ReplacesPreviousState(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	smaller := task.Snapshot{Tasks: []task.Task{{ID: "only", Title: "Only", Category: task.CategoryWork, Priority: task.PriorityLow, Duration: 20, Color: "#ffffff"}}}
	if err := repo.Save(ctx, smaller); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "only" {
		t.Errorf("expected only the last snapshot, got %+v", got.Tasks)
	}
	if len(got.ScheduledTasks) != 0 {
		t.Errorf("expected scheduled tasks cleared, got %d", len(got.ScheduledTasks))
	}
}

func TestSave_FailureKeepsPreviousState(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Duplicate primary keys make the insert fail mid-transaction.
	dup := task.Snapshot{Tasks: []task.Task{
		{ID: "x", Title: "a", Category: task.CategoryWork, Priority: task.PriorityLow, Duration: 20, Color: "#ffffff"},
		{ID: "x", Title: "b", Category: task.CategoryWork, Priority: task.PriorityLow, Duration: 20, Color: "#ffffff"},
	}}
	if err := repo.Save(ctx, dup); err == nil {
		t.Fatal("expected error saving duplicate ids")
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Tasks) != 2 || len(got.ScheduledTasks) != 2 {
		t.Errorf("expected previous state intact, got %d tasks, %d scheduled", len(got.Tasks), len(got.ScheduledTasks))
	}
}

func TestReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_ = repo.Close()

	repo, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Errorf("expected 2 tasks after reopen, got %d", len(got.Tasks))
	}
}
