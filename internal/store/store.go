// Package store holds the task pool and the scheduled grid and applies
// every mutation to them.
//
// Each command either succeeds and returns the affected item, or fails with
// an error wrapping task.ErrNotFound, task.ErrConflict or task.ErrValidation
// and leaves both lists unchanged. The store is not safe for concurrent use.
package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/scheduler"
	"github.com/javiermolinar/semana/internal/task"
)

// Store owns the pool and scheduled lists.
type Store struct {
	grid      grid.Config
	sched     *scheduler.Scheduler
	tasks     []task.Task
	scheduled []task.ScheduledTask
	now       func() time.Time
	newID     func() string
	resizing  *ResizeSession
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the id source used for new tasks and instances.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates an empty store for the given grid.
func New(g grid.Config, opts ...Option) *Store {
	s := &Store{
		grid:      g,
		sched:     scheduler.New(g),
		tasks:     []task.Task{},
		scheduled: []task.ScheduledTask{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grid returns the grid geometry.
func (s *Store) Grid() grid.Config {
	return s.grid
}

// Pool returns a copy of the unscheduled tasks in insertion order.
func (s *Store) Pool() []task.Task {
	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Scheduled returns a copy of the scheduled instances in insertion order.
func (s *Store) Scheduled() []task.ScheduledTask {
	out := make([]task.ScheduledTask, len(s.scheduled))
	for i, st := range s.scheduled {
		out[i] = st.Clone()
	}
	return out
}

// FindTask returns the pool task with the given id.
func (s *Store) FindTask(id string) (task.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: task %s", task.ErrNotFound, id)
	}
	return s.tasks[i].Clone(), nil
}

// FindScheduled returns the scheduled instance with the given id.
func (s *Store) FindScheduled(id string) (task.ScheduledTask, error) {
	i := s.scheduledIndex(id)
	if i < 0 {
		return task.ScheduledTask{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
	}
	return s.scheduled[i].Clone(), nil
}

// AddTask validates a draft and appends it to the pool.
func (s *Store) AddTask(d task.Draft) (task.Task, error) {
	t, err := task.New(d, s.newID(), s.now())
	if err != nil {
		return task.Task{}, err
	}
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

// UpdateTask merges f into the pool task and propagates the content change
// to every instance scheduled from it. A duration change re-derives the
// linked instances' end slots; if any of them would leave the grid or
// overlap another instance, nothing is changed.
func (s *Store) UpdateTask(id string, f task.Fields) (task.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: task %s", task.ErrNotFound, id)
	}

	updated := f.Apply(s.tasks[i])
	if err := updated.Validate(); err != nil {
		return task.Task{}, err
	}
	now := s.now()
	updated.UpdatedAt = &now

	next := s.Scheduled()
	var linked []int
	for j := range next {
		if !next[j].Linked(id) {
			continue
		}
		next[j].Task = propagate(next[j].Task, updated)
		if f.Duration != nil {
			next[j].EndSlot = next[j].StartSlot + s.grid.SlotsForDuration(next[j].Duration) - 1
		}
		linked = append(linked, j)
	}
	if f.Duration != nil {
		for _, j := range linked {
			st := next[j]
			if err := s.sched.Check(next, st.Day, st.StartSlot, st.Slots(), st.ID); err != nil {
				return task.Task{}, fmt.Errorf("resizing scheduled copy of %q: %w", updated.Title, err)
			}
		}
	}

	s.tasks[i] = updated
	s.scheduled = next
	return updated.Clone(), nil
}

// propagate copies the editable content of src onto dst.
func propagate(dst, src task.Task) task.Task {
	dst.Title = src.Title
	dst.Description = src.Description
	dst.Category = src.Category
	dst.Priority = src.Priority
	dst.Duration = src.Duration
	dst.Color = src.Color
	dst.UpdatedAt = src.UpdatedAt
	return dst
}

// RemoveTask deletes the pool task and every instance scheduled from it.
// Returns false when nothing matched.
func (s *Store) RemoveTask(id string) bool {
	before := len(s.tasks) + len(s.scheduled)
	s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
	s.scheduled = slices.DeleteFunc(s.scheduled, func(st task.ScheduledTask) bool { return st.Linked(id) })
	return len(s.tasks)+len(s.scheduled) != before
}

// Schedule moves a pool task onto the grid at (day, startSlot).
func (s *Store) Schedule(taskID string, day, startSlot int) (task.ScheduledTask, error) {
	i := s.taskIndex(taskID)
	if i < 0 {
		return task.ScheduledTask{}, fmt.Errorf("%w: task %s", task.ErrNotFound, taskID)
	}
	t := s.tasks[i]
	slots := s.grid.SlotsForDuration(t.Duration)
	if err := s.sched.Check(s.scheduled, day, startSlot, slots, ""); err != nil {
		return task.ScheduledTask{}, err
	}

	origin := t.ID
	st := task.ScheduledTask{
		Task:      t.Clone(),
		TaskID:    &origin,
		Day:       day,
		StartSlot: startSlot,
		EndSlot:   startSlot + slots - 1,
	}
	st.ID = s.newID()

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.scheduled = append(s.scheduled, st)
	return st.Clone(), nil
}

// MoveScheduled relocates an instance. The instance never conflicts with itself.
func (s *Store) MoveScheduled(id string, day, startSlot int) (task.ScheduledTask, error) {
	i := s.scheduledIndex(id)
	if i < 0 {
		return task.ScheduledTask{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
	}
	slots := s.grid.SlotsForDuration(s.scheduled[i].Duration)
	if err := s.sched.Check(s.scheduled, day, startSlot, slots, id); err != nil {
		return task.ScheduledTask{}, err
	}

	st := &s.scheduled[i]
	st.Day = day
	st.StartSlot = startSlot
	st.EndSlot = startSlot + slots - 1
	return st.Clone(), nil
}

// ReturnToPool removes an instance from the grid and puts its task back in
// the pool under the originating task id, or a fresh id for copies.
func (s *Store) ReturnToPool(id string) (task.Task, error) {
	i := s.scheduledIndex(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
	}
	st := s.scheduled[i]

	t := st.Task.Clone()
	if st.TaskID != nil {
		t.ID = *st.TaskID
	} else {
		t.ID = s.newID()
	}

	s.scheduled = slices.Delete(s.scheduled, i, i+1)
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

// Copy places a new unlinked instance with the template's content at
// (day, startSlot). The template is not modified.
func (s *Store) Copy(id string, day, startSlot int) (task.ScheduledTask, error) {
	i := s.scheduledIndex(id)
	if i < 0 {
		return task.ScheduledTask{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
	}
	return s.CopyFrom(s.scheduled[i], day, startSlot)
}

// CopyFrom places a new unlinked instance built from a captured template.
// The template does not need to still be on the grid.
func (s *Store) CopyFrom(template task.ScheduledTask, day, startSlot int) (task.ScheduledTask, error) {
	slots := s.grid.SlotsForDuration(template.Duration)
	if err := s.sched.Check(s.scheduled, day, startSlot, slots, ""); err != nil {
		return task.ScheduledTask{}, err
	}

	st := template.Clone()
	st.ID = s.newID()
	st.TaskID = nil
	st.CreatedAt = s.now()
	st.UpdatedAt = nil
	st.Day = day
	st.StartSlot = startSlot
	st.EndSlot = startSlot + slots - 1

	s.scheduled = append(s.scheduled, st)
	return st.Clone(), nil
}

// DeleteScheduled discards an instance. Pool tasks are never touched.
// Returns false when no instance matched.
func (s *Store) DeleteScheduled(id string) bool {
	i := s.scheduledIndex(id)
	if i < 0 {
		return false
	}
	s.scheduled = slices.Delete(s.scheduled, i, i+1)
	return true
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() task.Snapshot {
	return task.Snapshot{Tasks: s.Pool(), ScheduledTasks: s.Scheduled()}
}

// Restore replaces the full state. The snapshot must have unique ids, valid
// task content and non-overlapping instances that fit the grid; otherwise
// nothing changes.
func (s *Store) Restore(snap task.Snapshot) error {
	if err := s.validateSnapshot(snap); err != nil {
		return err
	}
	c := snap.Clone()
	s.tasks = c.Tasks
	s.scheduled = c.ScheduledTasks
	s.resizing = nil
	return nil
}

func (s *Store) validateSnapshot(snap task.Snapshot) error {
	seen := make(map[string]bool, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task %q has no id", task.ErrValidation, t.Title)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate task id %s", task.ErrValidation, t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}

	seen = make(map[string]bool, len(snap.ScheduledTasks))
	for i, st := range snap.ScheduledTasks {
		if st.ID == "" {
			return fmt.Errorf("%w: scheduled task %q has no id", task.ErrValidation, st.Title)
		}
		if seen[st.ID] {
			return fmt.Errorf("%w: duplicate scheduled task id %s", task.ErrValidation, st.ID)
		}
		seen[st.ID] = true
		if err := st.Task.Validate(); err != nil {
			return fmt.Errorf("scheduled task %s: %w", st.ID, err)
		}

		if st.EndSlot < st.StartSlot || !s.grid.FitsRange(st.Day, st.StartSlot, st.Slots()) {
			return fmt.Errorf("%w: scheduled task %s at day %d slots %d-%d is off the grid",
				task.ErrValidation, st.ID, st.Day, st.StartSlot, st.EndSlot)
		}
		if blocker, found := scheduler.FindConflict(snap.ScheduledTasks[:i], st.Day, st.StartSlot, st.Slots(), ""); found {
			return fmt.Errorf("%w: scheduled task %s overlaps %s", task.ErrValidation, st.ID, blocker.ID)
		}
	}
	return nil
}

func (s *Store) taskIndex(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

func (s *Store) scheduledIndex(id string) int {
	return slices.IndexFunc(s.scheduled, func(st task.ScheduledTask) bool { return st.ID == id })
}
