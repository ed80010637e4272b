package task

// Week holds the seven grid columns, Sunday first.
type Week struct {
	Days [7]*Day
}

// NewWeek distributes scheduled instances to their day columns.
// Instances with an out-of-range day are ignored.
func NewWeek(scheduled []ScheduledTask) *Week {
	w := &Week{}
	for i := range w.Days {
		w.Days[i] = NewDay(i, scheduled)
	}
	return w
}

// Day returns the column for the given index (0=Sunday).
// Returns nil if the index is out of range.
func (w *Week) Day(index int) *Day {
	if index < 0 || index > 6 {
		return nil
	}
	return w.Days[index]
}

// AllTasks returns every instance ordered by day, then start slot.
func (w *Week) AllTasks() []ScheduledTask {
	var out []ScheduledTask
	for _, d := range w.Days {
		out = append(out, d.tasks...)
	}
	return out
}

// WeekStats holds aggregated statistics for the week.
type WeekStats struct {
	Minutes    int
	Blocks     int
	ByCategory map[Category]int
	ByPriority map[Priority]int
	DayStats   [7]DayStats
}

// BusiestDay returns the day index with the most scheduled minutes, or -1 when empty.
func (s WeekStats) BusiestDay() (index int, minutes int) {
	index = -1
	for i, ds := range s.DayStats {
		if ds.Minutes > minutes {
			minutes = ds.Minutes
			index = i
		}
	}
	return index, minutes
}

// Stats calculates statistics for the week.
func (w *Week) Stats() WeekStats {
	stats := WeekStats{
		ByCategory: make(map[Category]int),
		ByPriority: make(map[Priority]int),
	}
	for i, day := range w.Days {
		ds := day.Stats()
		stats.DayStats[i] = ds
		stats.Minutes += ds.Minutes
		stats.Blocks += ds.Blocks
		for c, m := range ds.ByCategory {
			stats.ByCategory[c] += m
		}
		for p, m := range ds.ByPriority {
			stats.ByPriority[p] += m
		}
	}
	return stats
}
