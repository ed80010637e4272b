package engine

import (
	"context"

	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/task"
)

// ArmCopy captures an instance as the template for the next paste.
// Arming again replaces the template.
func (e *Engine) ArmCopy(id string) error {
	st, err := e.store.FindScheduled(id)
	if err != nil {
		e.reject("copy", err)
		return err
	}
	e.copyTemplate = &st
	e.logger.Debug("copy armed", logging.TaskID(id))
	e.notify(SeverityInfo, "task copied, pick a cell to paste")
	return nil
}

// CopyArmed reports whether a paste is pending.
func (e *Engine) CopyArmed() bool {
	return e.copyTemplate != nil
}

// CopyTemplate returns the captured template, if armed.
func (e *Engine) CopyTemplate() (task.ScheduledTask, bool) {
	if e.copyTemplate == nil {
		return task.ScheduledTask{}, false
	}
	return e.copyTemplate.Clone(), true
}

// CancelCopy leaves copy mode without pasting.
func (e *Engine) CancelCopy() {
	if e.copyTemplate != nil {
		e.copyTemplate = nil
		e.notify(SeverityInfo, "copy cancelled")
	}
}

// PasteAt places a copy of the armed template. Copy mode ends after one
// successful paste; a rejected paste keeps it armed.
func (e *Engine) PasteAt(ctx context.Context, day, slot int) (task.ScheduledTask, error) {
	if e.copyTemplate == nil {
		e.observe("paste", ErrCopyNotArmed)
		e.reject("paste", ErrCopyNotArmed)
		return task.ScheduledTask{}, ErrCopyNotArmed
	}
	tmpl := *e.copyTemplate
	st, err := run(ctx, e, "paste", "task pasted", func() (task.ScheduledTask, error) {
		return e.store.CopyFrom(tmpl, day, slot)
	})
	if err == nil {
		e.copyTemplate = nil
	}
	return st, err
}

// CopyTo places a copy of an instance in one step, without copy mode.
func (e *Engine) CopyTo(ctx context.Context, id string, day, slot int) (task.ScheduledTask, error) {
	return run(ctx, e, "copy", "task copied", func() (task.ScheduledTask, error) {
		return e.store.Copy(id, day, slot)
	})
}

// StartResize begins dragging one edge of an instance.
// Any unfinished resize is cancelled first.
func (e *Engine) StartResize(id string, edge store.Edge) error {
	if e.resize != nil {
		e.resize.Cancel()
		e.resize = nil
	}
	rs, err := e.store.BeginResize(id, edge)
	if err != nil {
		e.reject("resize", err)
		return err
	}
	e.resize = rs
	return nil
}

// Resizing reports whether a resize gesture is active.
func (e *Engine) Resizing() bool {
	return e.resize != nil
}

// ResizeTo previews the dragged edge at targetSlot. No conflict check is
// made until EndResize.
func (e *Engine) ResizeTo(targetSlot int) (task.ScheduledTask, error) {
	if e.resize == nil {
		return task.ScheduledTask{}, ErrNoResize
	}
	return e.resize.Preview(targetSlot), nil
}

// EndResize commits the previewed geometry. On conflict the instance is
// restored to where it was before StartResize.
func (e *Engine) EndResize(ctx context.Context) (task.ScheduledTask, error) {
	if e.resize == nil {
		e.observe("resize", ErrNoResize)
		e.reject("resize", ErrNoResize)
		return task.ScheduledTask{}, ErrNoResize
	}
	rs := e.resize
	e.resize = nil
	return run(ctx, e, "resize", "task duration updated", rs.Commit)
}

// AbortResize reverts the previewed geometry.
func (e *Engine) AbortResize() {
	if e.resize != nil {
		e.resize.Cancel()
		e.resize = nil
	}
}

// Resize applies a whole resize gesture at once.
func (e *Engine) Resize(ctx context.Context, id string, edge store.Edge, targetSlot int) (task.ScheduledTask, error) {
	if err := e.StartResize(id, edge); err != nil {
		return task.ScheduledTask{}, err
	}
	if _, err := e.ResizeTo(targetSlot); err != nil {
		return task.ScheduledTask{}, err
	}
	return e.EndResize(ctx)
}
