// Package task defines the core domain types for semana.
package task

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Domain errors. Every error returned by the store wraps exactly one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("schedule conflict")
	ErrValidation = errors.New("validation failed")
)

// Validation errors.
var (
	ErrEmptyTitle      = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrInvalidCategory = fmt.Errorf("%w: category must be one of work, personal, health, education, other", ErrValidation)
	ErrInvalidPriority = fmt.Errorf("%w: priority must be one of high, medium, low", ErrValidation)
	ErrInvalidDuration = fmt.Errorf("%w: duration must be a positive number of minutes", ErrValidation)
	ErrInvalidColor    = fmt.Errorf("%w: color must be in #RRGGBB format", ErrValidation)
)

// DefaultColor is the color assigned to tasks created without one.
const DefaultColor = "#3b82f6"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category groups tasks by area of life.
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryEducation, CategoryOther}

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryEducation, CategoryOther:
		return true
	default:
		return false
	}
}

// Label returns the human readable name.
func (c Category) Label() string {
	switch c {
	case CategoryWork:
		return "Work"
	case CategoryPersonal:
		return "Personal"
	case CategoryHealth:
		return "Health"
	case CategoryEducation:
		return "Education"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Label returns the human readable name.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// ParseCategory converts user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Task is a unit of work waiting in the pool.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Duration    int        `json:"duration"` // minutes
	Color       string     `json:"color"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ScheduledTask is a task instance placed on the weekly grid.
// ID identifies the instance; TaskID points back at the pool task it was
// scheduled from and is nil for copies.
type ScheduledTask struct {
	Task
	TaskID    *string `json:"taskId"`
	Day       int     `json:"day"` // 0 = Sunday
	StartSlot int     `json:"startSlot"`
	EndSlot   int     `json:"endSlot"` // inclusive
}

// Draft holds the user-supplied content of a new task.
// Zero values for Category, Priority and Color are replaced with defaults.
type Draft struct {
	Title       string
	Description string
	Category    Category
	Priority    Priority
	Duration    int
	Color       string
}

// New builds a validated Task from a draft.
func New(d Draft, id string, now time.Time) (Task, error) {
	t := Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    d.Category,
		Priority:    d.Priority,
		Duration:    d.Duration,
		Color:       d.Color,
		CreatedAt:   now,
	}
	if t.Category == "" {
		t.Category = CategoryOther
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Color == "" {
		t.Color = DefaultColor
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Validate checks the task content.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if t.Duration <= 0 {
		return ErrInvalidDuration
	}
	if !colorPattern.MatchString(t.Color) {
		return ErrInvalidColor
	}
	return nil
}

// Fields is a partial update. Nil fields are left unchanged.
type Fields struct {
	Title       *string
	Description *string
	Category    *Category
	Priority    *Priority
	Duration    *int
	Color       *string
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Category == nil &&
		f.Priority == nil && f.Duration == nil && f.Color == nil
}

// Apply returns a copy of t with the set fields merged in.
// Only content is touched; identity and timestamps are kept.
func (f Fields) Apply(t Task) Task {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		t.Description = strings.TrimSpace(*f.Description)
	}
	if f.Category != nil {
		t.Category = *f.Category
	}
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	if f.Duration != nil {
		t.Duration = *f.Duration
	}
	if f.Color != nil {
		t.Color = *f.Color
	}
	return t
}

// Slots returns the number of grid slots the instance occupies.
func (st ScheduledTask) Slots() int {
	return st.EndSlot - st.StartSlot + 1
}

// Linked reports whether the instance was scheduled from pool task id.
func (st ScheduledTask) Linked(id string) bool {
	return st.TaskID != nil && *st.TaskID == id
}

// Overlaps reports whether the closed slot range [start, end] on day
// intersects this instance.
func (st ScheduledTask) Overlaps(day, start, end int) bool {
	return st.Day == day && start <= st.EndSlot && end >= st.StartSlot
}

// Clone returns a deep copy.
func (st ScheduledTask) Clone() ScheduledTask {
	if st.TaskID != nil {
		id := *st.TaskID
		st.TaskID = &id
	}
	st.Task = st.Task.Clone()
	return st
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		t.UpdatedAt = &u
	}
	return t
}
