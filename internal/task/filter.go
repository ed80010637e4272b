package task

import "strings"

// Filter narrows the pool listing. Empty fields match everything.
type Filter struct {
	Search   string
	Priority Priority
	Category Category
}

// Match reports whether t passes the filter.
// Search is a case-insensitive substring match on title and description.
func (f Filter) Match(t Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the tasks that pass the filter, preserving order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
