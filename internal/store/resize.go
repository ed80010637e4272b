package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/semana/internal/task"
)

// ErrResizeInProgress is returned when a second resize starts before the
// first one is committed or cancelled.
var ErrResizeInProgress = errors.New("resize already in progress")

// Edge is the side of a block being dragged.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// ParseEdge converts user input into an Edge.
func ParseEdge(s string) (Edge, error) {
	switch e := Edge(strings.ToLower(strings.TrimSpace(s))); e {
	case EdgeTop, EdgeBottom:
		return e, nil
	default:
		return "", fmt.Errorf("%w: edge must be top or bottom, got %q", task.ErrValidation, s)
	}
}

// ResizeSession is an in-flight resize of one instance.
// Previews change the instance in place without a conflict check so
// renderers can draw it; Commit validates and Cancel reverts.
type ResizeSession struct {
	store *Store
	id    string
	edge  Edge

	// geometry before the session began
	origStart    int
	origEnd      int
	origDuration int

	done bool
}

// BeginResize starts resizing the instance by dragging edge.
func (s *Store) BeginResize(id string, edge Edge) (*ResizeSession, error) {
	if s.resizing != nil {
		return nil, ErrResizeInProgress
	}
	if edge != EdgeTop && edge != EdgeBottom {
		return nil, fmt.Errorf("%w: unknown edge %q", task.ErrValidation, edge)
	}
	i := s.scheduledIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
	}
	st := s.scheduled[i]
	rs := &ResizeSession{
		store:        s,
		id:           id,
		edge:         edge,
		origStart:    st.StartSlot,
		origEnd:      st.EndSlot,
		origDuration: st.Duration,
	}
	s.resizing = rs
	return rs, nil
}

// Resizing returns the active session, if any.
func (s *Store) Resizing() *ResizeSession {
	return s.resizing
}

// ID returns the instance being resized.
func (rs *ResizeSession) ID() string {
	return rs.id
}

// Edge returns the edge being dragged.
func (rs *ResizeSession) Edge() Edge {
	return rs.edge
}

// Preview moves the dragged edge to targetSlot. The opposite edge stays
// where it was when the session began and the block never shrinks below
// one slot.
func (rs *ResizeSession) Preview(targetSlot int) task.ScheduledTask {
	st := rs.instance()
	if st == nil || rs.done {
		return task.ScheduledTask{}
	}
	g := rs.store.grid
	start, end := rs.origStart, rs.origEnd
	switch rs.edge {
	case EdgeBottom:
		end = g.ClampSlot(max(rs.origStart, targetSlot))
	case EdgeTop:
		start = min(rs.origEnd, max(0, targetSlot))
	}
	st.StartSlot = start
	st.EndSlot = end
	st.Duration = g.DurationForSlots(end - start + 1)
	return st.Clone()
}

// Commit validates the previewed geometry. On conflict the instance is
// restored to its pre-resize geometry and duration.
func (rs *ResizeSession) Commit() (task.ScheduledTask, error) {
	if rs.done {
		return task.ScheduledTask{}, fmt.Errorf("%w: resize session already finished", task.ErrValidation)
	}
	defer rs.finish()

	st := rs.instance()
	if st == nil {
		return task.ScheduledTask{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, rs.id)
	}
	if err := rs.store.sched.Check(rs.store.scheduled, st.Day, st.StartSlot, st.Slots(), st.ID); err != nil {
		rs.revert(st)
		return task.ScheduledTask{}, err
	}
	return st.Clone(), nil
}

// Cancel reverts the instance to its pre-resize geometry.
func (rs *ResizeSession) Cancel() {
	if rs.done {
		return
	}
	if st := rs.instance(); st != nil {
		rs.revert(st)
	}
	rs.finish()
}

// Changed reports whether the preview differs from the starting geometry.
func (rs *ResizeSession) Changed() bool {
	st := rs.instance()
	return st != nil && (st.StartSlot != rs.origStart || st.EndSlot != rs.origEnd)
}

func (rs *ResizeSession) revert(st *task.ScheduledTask) {
	st.StartSlot = rs.origStart
	st.EndSlot = rs.origEnd
	st.Duration = rs.origDuration
}

func (rs *ResizeSession) finish() {
	rs.done = true
	if rs.store.resizing == rs {
		rs.store.resizing = nil
	}
}

func (rs *ResizeSession) instance() *task.ScheduledTask {
	i := rs.store.scheduledIndex(rs.id)
	if i < 0 {
		return nil
	}
	return &rs.store.scheduled[i]
}

// Resize applies a complete resize gesture in one call.
func (s *Store) Resize(id string, edge Edge, targetSlot int) (task.ScheduledTask, error) {
	rs, err := s.BeginResize(id, edge)
	if err != nil {
		return task.ScheduledTask{}, err
	}
	rs.Preview(targetSlot)
	return rs.Commit()
}
