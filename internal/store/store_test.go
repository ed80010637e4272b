package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/task"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// newTestStore creates a store on the 08:00-24:00 / 20 min grid with
// sequential ids id-1, id-2, ...
func newTestStore(t *testing.T) *Store {
	t.Helper()
	n := 0
	return New(grid.Default(),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func mustAdd(t *testing.T, s *Store, title string, duration int) task.Task {
	t.Helper()
	tk, err := s.AddTask(task.Draft{Title: title, Duration: duration, Category: task.CategoryWork, Priority: task.PriorityHigh, Color: "#112233"})
	if err != nil {
		t.Fatalf("AddTask(%s) failed: %v", title, err)
	}
	return tk
}

func mustSchedule(t *testing.T, s *Store, id string, day, slot int) task.ScheduledTask {
	t.Helper()
	st, err := s.Schedule(id, day, slot)
	if err != nil {
		t.Fatalf("Schedule(%s, %d, %d) failed: %v", id, day, slot, err)
	}
	return st
}

func encode(t *testing.T, s *Store) string {
	t.Helper()
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	return string(data)
}

func TestScenario(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "A", 40)
	b := mustAdd(t, s, "B", 20)

	stA := mustSchedule(t, s, a.ID, 1, 0)
	if stA.EndSlot != 1 {
		t.Errorf("expected A endSlot 1, got %d", stA.EndSlot)
	}

	_, err := s.Schedule(b.ID, 1, 1)
	if !errors.Is(err, task.ErrConflict) {
		t.Fatalf("expected conflict for B at slot 1, got %v", err)
	}

	stB := mustSchedule(t, s, b.ID, 1, 2)
	if stB.EndSlot != 2 {
		t.Errorf("expected B endSlot 2, got %d", stB.EndSlot)
	}
}

func TestAddTask(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Write", 30)
	if tk.ID != "id-1" {
		t.Errorf("expected id-1, got %s", tk.ID)
	}
	if len(s.Pool()) != 1 {
		t.Fatalf("expected 1 pool task, got %d", len(s.Pool()))
	}

	if _, err := s.AddTask(task.Draft{Title: "", Duration: 20}); !errors.Is(err, task.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(s.Pool()) != 1 {
		t.Errorf("failed add changed the pool")
	}
}

func TestSchedule(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Deep work", 45)

	st := mustSchedule(t, s, tk.ID, 3, 10)
	if st.ID == tk.ID {
		t.Error("expected a fresh instance id")
	}
	if st.TaskID == nil || *st.TaskID != tk.ID {
		t.Errorf("expected back-reference to %s, got %v", tk.ID, st.TaskID)
	}
	if st.StartSlot != 10 || st.EndSlot != 12 {
		t.Errorf("expected slots 10-12, got %d-%d", st.StartSlot, st.EndSlot)
	}
	if st.Duration != 45 {
		t.Errorf("expected duration kept at 45, got %d", st.Duration)
	}
	if len(s.Pool()) != 0 {
		t.Error("expected task removed from pool")
	}
	if len(s.Scheduled()) != 1 {
		t.Error("expected one scheduled instance")
	}
}

func TestSchedule_Errors(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Long", 60)

	tests := []struct {
		name string
		id   string
		day  int
		slot int
		want error
	}{
		{"missing task", "nope", 1, 0, task.ErrNotFound},
		{"bad day", tk.ID, 7, 0, task.ErrValidation},
		{"overflows day", tk.ID, 1, 46, task.ErrValidation},
		{"negative slot", tk.ID, 1, -1, task.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := encode(t, s)
			_, err := s.Schedule(tt.id, tt.day, tt.slot)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if encode(t, s) != before {
				t.Error("state changed after failed schedule")
			}
		})
	}
}

func TestConflictLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "A", 60)
	b := mustAdd(t, s, "B", 40)
	stA := mustSchedule(t, s, a.ID, 2, 5)
	stB := mustSchedule(t, s, b.ID, 2, 10)
	c := mustAdd(t, s, "C", 20)

	before := encode(t, s)

	if _, err := s.Schedule(c.ID, 2, 6); !errors.Is(err, task.ErrConflict) {
		t.Errorf("schedule: expected conflict, got %v", err)
	}
	if _, err := s.MoveScheduled(stB.ID, 2, 7); !errors.Is(err, task.ErrConflict) {
		t.Errorf("move: expected conflict, got %v", err)
	}
	if _, err := s.Resize(stA.ID, EdgeBottom, 10); !errors.Is(err, task.ErrConflict) {
		t.Errorf("resize: expected conflict, got %v", err)
	}
	if _, err := s.Copy(stA.ID, 2, 11); !errors.Is(err, task.ErrConflict) {
		t.Errorf("copy: expected conflict, got %v", err)
	}

	if after := encode(t, s); after != before {
		t.Errorf("state changed after conflicts:\nbefore %s\nafter  %s", before, after)
	}
}

func TestMoveScheduled(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Gym", 60)
	st := mustSchedule(t, s, tk.ID, 0, 0)

	// Shifting by one slot overlaps its own old range, which is allowed.
	moved, err := s.MoveScheduled(st.ID, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.StartSlot != 1 || moved.EndSlot != 3 {
		t.Errorf("expected slots 1-3, got %d-%d", moved.StartSlot, moved.EndSlot)
	}

	moved, err = s.MoveScheduled(st.ID, 6, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.Day != 6 || moved.ID != st.ID {
		t.Errorf("expected same instance on day 6, got %+v", moved)
	}

	if _, err := s.MoveScheduled("missing", 0, 0); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestReturnToPool(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Read", 40)
	st := mustSchedule(t, s, tk.ID, 4, 4)

	back, err := s.ReturnToPool(st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.ID != tk.ID {
		t.Errorf("expected original id %s, got %s", tk.ID, back.ID)
	}
	if back.Title != tk.Title || back.Category != tk.Category || back.Priority != tk.Priority ||
		back.Color != tk.Color || back.Duration != tk.Duration {
		t.Errorf("content changed across schedule/return: %+v vs %+v", back, tk)
	}
	if !back.CreatedAt.Equal(tk.CreatedAt) {
		t.Errorf("expected createdAt kept, got %v", back.CreatedAt)
	}
	if len(s.Scheduled()) != 0 || len(s.Pool()) != 1 {
		t.Error("expected instance removed and task back in pool")
	}

	if _, err := s.ReturnToPool(st.ID); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("expected not found on second return, got %v", err)
	}
}

func TestReturnToPool_CopyGetsFreshID(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Call", 20)
	st := mustSchedule(t, s, tk.ID, 1, 0)
	cp, err := s.Copy(st.ID, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := s.ReturnToPool(cp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.ID == "" || back.ID == tk.ID || back.ID == cp.ID {
		t.Errorf("expected fresh id, got %s", back.ID)
	}
}

func TestCopy(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Standup", 20)
	st := mustSchedule(t, s, tk.ID, 1, 3)

	cp, err := s.Copy(st.ID, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.ID == st.ID {
		t.Error("expected fresh id for copy")
	}
	if cp.TaskID != nil {
		t.Errorf("expected nil TaskID for copy, got %v", *cp.TaskID)
	}
	if cp.Title != st.Title || cp.Duration != st.Duration || cp.Color != st.Color {
		t.Errorf("copy content differs: %+v", cp)
	}

	tmpl, err := s.FindScheduled(st.ID)
	if err != nil {
		t.Fatalf("template lost: %v", err)
	}
	if tmpl.Day != 1 || tmpl.StartSlot != 3 {
		t.Errorf("template moved: %+v", tmpl)
	}
	if len(s.Scheduled()) != 2 {
		t.Errorf("expected 2 instances, got %d", len(s.Scheduled()))
	}
}

func TestDeleteScheduled(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Errand", 20)
	st := mustSchedule(t, s, tk.ID, 1, 0)
	other := mustAdd(t, s, "Other", 20)

	if !s.DeleteScheduled(st.ID) {
		t.Fatal("expected delete to succeed")
	}
	if s.DeleteScheduled(st.ID) {
		t.Error("expected second delete to report false")
	}
	pool := s.Pool()
	if len(pool) != 1 || pool[0].ID != other.ID {
		t.Errorf("pool should be untouched, got %+v", pool)
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Plan", 20)

	title := "Plan week"
	color := "#abcdef"
	updated, err := s.UpdateTask(tk.ID, task.Fields{Title: &title, Color: &color})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != title || updated.Color != color {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(testNow) {
		t.Errorf("expected UpdatedAt stamped, got %v", updated.UpdatedAt)
	}

	if _, err := s.UpdateTask("missing", task.Fields{Title: &title}); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	empty := ""
	if _, err := s.UpdateTask(tk.ID, task.Fields{Title: &empty}); !errors.Is(err, task.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// linkedStore returns a store holding pool task "id-1" plus an instance
// linked to it, as produced by importing data saved while the task was
// both listed and scheduled.
func linkedStore(t *testing.T) (*Store, task.ScheduledTask) {
	t.Helper()
	s := newTestStore(t)
	origin := "p1"
	snap := task.Snapshot{
		Tasks: []task.Task{{ID: origin, Title: "Yoga", Category: task.CategoryHealth, Priority: task.PriorityLow, Duration: 40, Color: "#00aa00", CreatedAt: testNow}},
		ScheduledTasks: []task.ScheduledTask{
			{Task: task.Task{ID: "s1", Title: "Yoga", Category: task.CategoryHealth, Priority: task.PriorityLow, Duration: 40, Color: "#00aa00", CreatedAt: testNow}, TaskID: &origin, Day: 1, StartSlot: 0, EndSlot: 1},
			{Task: task.Task{ID: "s2", Title: "Lunch", Category: task.CategoryPersonal, Priority: task.PriorityLow, Duration: 20, Color: "#aa0000", CreatedAt: testNow}, Day: 1, StartSlot: 3, EndSlot: 3},
		},
	}
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return s, snap.ScheduledTasks[0]
}

func TestUpdateTask_Cascades(t *testing.T) {
	s, linked := linkedStore(t)

	title := "Evening yoga"
	prio := task.PriorityHigh
	if _, err := s.UpdateTask("p1", task.Fields{Title: &title, Priority: &prio}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := s.FindScheduled(linked.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Title != title || st.Priority != prio {
		t.Errorf("change not propagated: %+v", st)
	}
	if st.StartSlot != 0 || st.EndSlot != 1 || st.Day != 1 {
		t.Errorf("geometry changed without duration change: %+v", st)
	}
	other, _ := s.FindScheduled("s2")
	if other.Title != "Lunch" {
		t.Errorf("unlinked instance changed: %+v", other)
	}
}

func TestUpdateTask_DurationCascade(t *testing.T) {
	t.Run("grows into free space", func(t *testing.T) {
		s, linked := linkedStore(t)
		dur := 60
		if _, err := s.UpdateTask("p1", task.Fields{Duration: &dur}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		st, _ := s.FindScheduled(linked.ID)
		if st.EndSlot != 2 || st.Duration != 60 {
			t.Errorf("expected endSlot 2 and duration 60, got %d and %d", st.EndSlot, st.Duration)
		}
	})

	t.Run("growth into neighbour is rejected", func(t *testing.T) {
		s, _ := linkedStore(t)
		before := encode(t, s)
		dur := 80
		if _, err := s.UpdateTask("p1", task.Fields{Duration: &dur}); !errors.Is(err, task.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		if encode(t, s) != before {
			t.Error("state changed after rejected update")
		}
	})
}

func TestRemoveTask(t *testing.T) {
	s, linked := linkedStore(t)

	if !s.RemoveTask("p1") {
		t.Fatal("expected removal")
	}
	if len(s.Pool()) != 0 {
		t.Error("expected pool empty")
	}
	if _, err := s.FindScheduled(linked.ID); !errors.Is(err, task.ErrNotFound) {
		t.Error("expected linked instance removed")
	}
	if _, err := s.FindScheduled("s2"); err != nil {
		t.Error("unlinked instance should survive")
	}

	before := encode(t, s)
	if s.RemoveTask("p1") {
		t.Error("expected no-op for absent id")
	}
	if encode(t, s) != before {
		t.Error("no-op remove changed state")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(t)
	tk := mustAdd(t, s, "Copy me", 20)

	snap := s.Snapshot()
	snap.Tasks[0].Title = "mutated"

	got, _ := s.FindTask(tk.ID)
	if got.Title != "Copy me" {
		t.Error("snapshot aliases store state")
	}
}

func validTask(id string) task.Task {
	return task.Task{ID: id, Title: "Task " + id, Category: task.CategoryWork, Priority: task.PriorityMedium, Duration: 20, Color: "#112233", CreatedAt: testNow}
}

func placed(id string, day, start, end int) task.ScheduledTask {
	st := task.ScheduledTask{Task: validTask(id), Day: day, StartSlot: start, EndSlot: end}
	st.Duration = (end - start + 1) * 20
	return st
}

func TestRestore_Rejects(t *testing.T) {
	with := func(edit func(*task.Task)) task.Task {
		tk := validTask("p")
		edit(&tk)
		return tk
	}
	badScheduled := placed("s", 1, 0, 1)
	badScheduled.Duration = -40

	tests := []struct {
		name string
		snap task.Snapshot
	}{
		{"duplicate task id", task.Snapshot{Tasks: []task.Task{validTask("a"), validTask("a")}}},
		{"missing id", task.Snapshot{Tasks: []task.Task{validTask("")}}},
		{"off grid", task.Snapshot{ScheduledTasks: []task.ScheduledTask{placed("s", 1, 47, 48)}}},
		{"bad day", task.Snapshot{ScheduledTasks: []task.ScheduledTask{placed("s", 8, 0, 0)}}},
		{"overlap", task.Snapshot{ScheduledTasks: []task.ScheduledTask{placed("s1", 1, 0, 2), placed("s2", 1, 2, 3)}}},
		{"empty title", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Title = " " })}}},
		{"negative duration", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Duration = -40 })}}},
		{"zero duration", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Duration = 0 })}}},
		{"unknown category", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Category = "bogus" })}}},
		{"unknown priority", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Priority = "urgent" })}}},
		{"bad color", task.Snapshot{Tasks: []task.Task{with(func(tk *task.Task) { tk.Color = "red" })}}},
		{"bad scheduled content", task.Snapshot{ScheduledTasks: []task.ScheduledTask{badScheduled}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			mustAdd(t, s, "keep", 20)
			before := encode(t, s)
			if err := s.Restore(tt.snap); !errors.Is(err, task.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			if encode(t, s) != before {
				t.Error("state changed after rejected restore")
			}
		})
	}
}
