// Package scheduler decides whether a slot range can be placed on the weekly grid.
package scheduler

import (
	"fmt"

	"github.com/javiermolinar/semana/internal/grid"
	"github.com/javiermolinar/semana/internal/task"
)

// HasConflict reports whether placing slotsNeeded slots at (day, startSlot)
// would overlap any scheduled instance other than excludeID.
// Ranges are closed: a block ending at slot 1 conflicts with one starting at slot 1.
// An empty excludeID excludes nothing.
func HasConflict(scheduled []task.ScheduledTask, day, startSlot, slotsNeeded int, excludeID string) bool {
	_, found := FindConflict(scheduled, day, startSlot, slotsNeeded, excludeID)
	return found
}

// FindConflict returns the first instance blocking the range.
func FindConflict(scheduled []task.ScheduledTask, day, startSlot, slotsNeeded int, excludeID string) (task.ScheduledTask, bool) {
	endSlot := startSlot + slotsNeeded - 1
	for _, st := range scheduled {
		if excludeID != "" && st.ID == excludeID {
			continue
		}
		if st.Overlaps(day, startSlot, endSlot) {
			return st, true
		}
	}
	return task.ScheduledTask{}, false
}

// Scheduler checks placements against a grid geometry.
type Scheduler struct {
	grid grid.Config
}

// New creates a new Scheduler for the given grid.
func New(g grid.Config) *Scheduler {
	return &Scheduler{grid: g}
}

// Grid returns the geometry the scheduler validates against.
func (s *Scheduler) Grid() grid.Config {
	return s.grid
}

// Check validates that a range fits on the grid and is free.
// Returns an error wrapping task.ErrValidation or task.ErrConflict.
func (s *Scheduler) Check(scheduled []task.ScheduledTask, day, startSlot, slotsNeeded int, excludeID string) error {
	if !s.grid.IsValidDay(day) {
		return fmt.Errorf("%w: day %d out of range 0-6", task.ErrValidation, day)
	}
	if !s.grid.IsValidSlot(day, startSlot) {
		return fmt.Errorf("%w: slot %d out of range 0-%d", task.ErrValidation, startSlot, s.grid.TotalSlots()-1)
	}
	if !s.grid.FitsRange(day, startSlot, slotsNeeded) {
		return fmt.Errorf("%w: %d slots from %s run past %s",
			task.ErrValidation, slotsNeeded, s.grid.SlotLabel(startSlot), s.grid.SlotEndLabel(s.grid.TotalSlots()-1))
	}
	if blocker, found := FindConflict(scheduled, day, startSlot, slotsNeeded, excludeID); found {
		return fmt.Errorf("%w: overlaps %q (%s-%s)",
			task.ErrConflict, blocker.Title, s.grid.SlotLabel(blocker.StartSlot), s.grid.SlotEndLabel(blocker.EndSlot))
	}
	return nil
}

// NextFree returns the first start slot at or after fromSlot on day where
// slotsNeeded slots fit without conflict.
func (s *Scheduler) NextFree(scheduled []task.ScheduledTask, day, fromSlot, slotsNeeded int, excludeID string) (int, bool) {
	if !s.grid.IsValidDay(day) {
		return 0, false
	}
	for slot := max(0, fromSlot); slot+slotsNeeded <= s.grid.TotalSlots(); slot++ {
		if !HasConflict(scheduled, day, slot, slotsNeeded, excludeID) {
			return slot, true
		}
	}
	return 0, false
}

// NextFreeInWeek scans from (fromDay, fromSlot) forward through the end of
// the week and returns the first free position.
func (s *Scheduler) NextFreeInWeek(scheduled []task.ScheduledTask, fromDay, fromSlot, slotsNeeded int, excludeID string) (day, slot int, ok bool) {
	for day = max(0, fromDay); day < grid.DaysPerWeek; day++ {
		start := 0
		if day == fromDay {
			start = fromSlot
		}
		if slot, ok = s.NextFree(scheduled, day, start, slotsNeeded, excludeID); ok {
			return day, slot, true
		}
	}
	return 0, 0, false
}
