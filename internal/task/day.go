package task

import "slices"

// Day holds the scheduled instances of one grid column.
type Day struct {
	Index int             // 0 = Sunday
	tasks []ScheduledTask // sorted by StartSlot
}

// NewDay creates a Day from instances already known to belong to it.
func NewDay(index int, tasks []ScheduledTask) *Day {
	d := &Day{Index: index, tasks: make([]ScheduledTask, 0, len(tasks))}
	for _, st := range tasks {
		if st.Day == index {
			d.tasks = append(d.tasks, st)
		}
	}
	slices.SortStableFunc(d.tasks, func(a, b ScheduledTask) int {
		return a.StartSlot - b.StartSlot
	})
	return d
}

// Tasks returns a copy of the instances in start order.
func (d *Day) Tasks() []ScheduledTask {
	return slices.Clone(d.tasks)
}

// Len returns the number of instances.
func (d *Day) Len() int {
	return len(d.tasks)
}

// At returns the instance covering slot, if any.
func (d *Day) At(slot int) (ScheduledTask, bool) {
	for _, st := range d.tasks {
		if slot >= st.StartSlot && slot <= st.EndSlot {
			return st, true
		}
	}
	return ScheduledTask{}, false
}

// DayStats holds aggregated minutes for a day.
type DayStats struct {
	Minutes    int
	Blocks     int
	ByCategory map[Category]int
	ByPriority map[Priority]int
}

// Stats calculates statistics for the day.
func (d *Day) Stats() DayStats {
	s := DayStats{
		ByCategory: make(map[Category]int),
		ByPriority: make(map[Priority]int),
	}
	for _, st := range d.tasks {
		s.Minutes += st.Duration
		s.Blocks++
		s.ByCategory[st.Category] += st.Duration
		s.ByPriority[st.Priority] += st.Duration
	}
	return s
}
