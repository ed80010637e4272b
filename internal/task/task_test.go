package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	t.Run("valid task", func(t *testing.T) {
		task, err := New(Draft{
			Title:    "Write report",
			Category: CategoryWork,
			Priority: PriorityHigh,
			Duration: 40,
			Color:    "#ff0000",
		}, "t1", fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.ID != "t1" {
			t.Errorf("got id %q, want %q", task.ID, "t1")
		}
		if task.Title != "Write report" {
			t.Errorf("got title %q, want %q", task.Title, "Write report")
		}
		if !task.CreatedAt.Equal(fixedNow) {
			t.Errorf("got createdAt %v, want %v", task.CreatedAt, fixedNow)
		}
		if task.UpdatedAt != nil {
			t.Error("expected UpdatedAt to be nil")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		task, err := New(Draft{Title: "Walk", Duration: 20}, "t2", fixedNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.Category != CategoryOther {
			t.Errorf("got category %q, want %q", task.Category, CategoryOther)
		}
		if task.Priority != PriorityMedium {
			t.Errorf("got priority %q, want %q", task.Priority, PriorityMedium)
		}
		if task.Color != DefaultColor {
			t.Errorf("got color %q, want %q", task.Color, DefaultColor)
		}
	})
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty title", Draft{Title: "  ", Duration: 20}, ErrEmptyTitle},
		{"bad category", Draft{Title: "x", Duration: 20, Category: "fun"}, ErrInvalidCategory},
		{"bad priority", Draft{Title: "x", Duration: 20, Priority: "urgent"}, ErrInvalidPriority},
		{"zero duration", Draft{Title: "x"}, ErrInvalidDuration},
		{"negative duration", Draft{Title: "x", Duration: -5}, ErrInvalidDuration},
		{"bad color", Draft{Title: "x", Duration: 20, Color: "blue"}, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.draft, "id", fixedNow)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Health ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != CategoryHealth {
		t.Errorf("got %q, want %q", c, CategoryHealth)
	}
	if _, err := ParseCategory("deep"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("LOW")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != PriorityLow {
		t.Errorf("got %q, want %q", p, PriorityLow)
	}
	if _, err := ParsePriority(""); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestFieldsApply(t *testing.T) {
	base := Task{ID: "a", Title: "Old", Category: CategoryWork, Priority: PriorityLow, Duration: 20, Color: "#000000"}
	title := "New"
	dur := 60
	got := Fields{Title: &title, Duration: &dur}.Apply(base)

	if got.Title != "New" || got.Duration != 60 {
		t.Errorf("fields not applied: %+v", got)
	}
	if got.ID != "a" || got.Category != CategoryWork || got.Color != "#000000" {
		t.Errorf("unset fields changed: %+v", got)
	}
	if (Fields{}).IsEmpty() != true {
		t.Error("expected empty Fields to report IsEmpty")
	}
}

func TestScheduledTaskOverlaps(t *testing.T) {
	st := ScheduledTask{Day: 1, StartSlot: 2, EndSlot: 4}
	tests := []struct {
		day, start, end int
		want            bool
	}{
		{1, 0, 1, false},
		{1, 0, 2, true},
		{1, 4, 6, true},
		{1, 5, 6, false},
		{1, 3, 3, true},
		{2, 2, 4, false},
	}
	for _, tt := range tests {
		if got := st.Overlaps(tt.day, tt.start, tt.end); got != tt.want {
			t.Errorf("Overlaps(%d, %d, %d) = %v, want %v", tt.day, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestScheduledTaskJSON(t *testing.T) {
	st := ScheduledTask{
		Task:      Task{ID: "s1", Title: "Gym", Category: CategoryHealth, Priority: PriorityHigh, Duration: 40, Color: "#00ff00", CreatedAt: fixedNow},
		Day:       2,
		StartSlot: 3,
		EndSlot:   4,
	}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"id":"s1"`, `"taskId":null`, `"startSlot":3`, `"endSlot":4`, `"day":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "updatedAt") {
		t.Errorf("expected updatedAt to be omitted, got %s", s)
	}
}

func TestCloneIsDeep(t *testing.T) {
	id := "origin"
	st := ScheduledTask{Task: Task{ID: "s1"}, TaskID: &id}
	c := st.Clone()
	*c.TaskID = "changed"
	if *st.TaskID != "origin" {
		t.Error("clone shares TaskID pointer")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrEmptyTitle, KindValidation},
		{ErrConflict, KindConflict},
		{ErrNotFound, KindNotFound},
		{errors.New("disk full"), KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if KindConflict.String() != "conflict" {
		t.Errorf("got %q, want conflict", KindConflict.String())
	}
}

func TestFilter(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "Write report", Category: CategoryWork, Priority: PriorityHigh},
		{ID: "2", Title: "Run", Description: "morning run", Category: CategoryHealth, Priority: PriorityLow},
		{ID: "3", Title: "Read book", Category: CategoryEducation, Priority: PriorityHigh},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty", Filter{}, []string{"1", "2", "3"}},
		{"priority", Filter{Priority: PriorityHigh}, []string{"1", "3"}},
		{"category", Filter{Category: CategoryHealth}, []string{"2"}},
		{"search description", Filter{Search: "MORNING"}, []string{"2"}},
		{"combined", Filter{Search: "re", Priority: PriorityHigh}, []string{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(tasks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("index %d: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
