package task

import "context"

// Snapshot is the complete planner state.
// Its JSON form is the persisted and exported layout.
type Snapshot struct {
	Tasks          []Task          `json:"tasks"`
	ScheduledTasks []ScheduledTask `json:"scheduledTasks"`
}

// Clone returns a deep copy with non-nil slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Tasks:          make([]Task, 0, len(s.Tasks)),
		ScheduledTasks: make([]ScheduledTask, 0, len(s.ScheduledTasks)),
	}
	for _, t := range s.Tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	for _, st := range s.ScheduledTasks {
		out.ScheduledTasks = append(out.ScheduledTasks, st.Clone())
	}
	return out
}

// Repository defines the storage interface for planner state.
// Both lists are always written together; a backend shared by several
// writers resolves races at whole-list granularity (last writer wins).
type Repository interface {
	// Load returns the last saved snapshot, or an empty one if nothing was saved.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored state with s.
	Save(ctx context.Context, s Snapshot) error

	// Close releases any resources held by the repository.
	Close() error
}
