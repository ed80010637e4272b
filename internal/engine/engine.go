// Package engine turns user gestures into store commands.
//
// After every successful mutation the full snapshot is written through the
// repository. A failed write is reported and leaves the in-memory state as
// it is. Failed commands change nothing and produce a notice:
// conflicts and validation errors are shown to the user, missing ids are
// only logged.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/semana/internal/logging"
	"github.com/javiermolinar/semana/internal/scheduler"
	"github.com/javiermolinar/semana/internal/store"
	"github.com/javiermolinar/semana/internal/task"
)

// Engine errors.
var (
	ErrCopyNotArmed = fmt.Errorf("%w: copy mode is not active", task.ErrValidation)
	ErrNoResize     = fmt.Errorf("%w: no resize in progress", task.ErrValidation)
	ErrResizeActive = fmt.Errorf("%w: finish or cancel the resize first", task.ErrValidation)
	ErrNoFreeSlot   = fmt.Errorf("%w: no free slot left this week", task.ErrConflict)
)

// Recorder receives operation metrics.
type Recorder interface {
	ObserveOperation(op, result string)
	ObserveSave(d time.Duration, err error)
	SetSizes(pool, scheduled int)
}

// Engine coordinates the store, persistence and user feedback.
// It is not safe for concurrent use.
type Engine struct {
	store    *store.Store
	sched    *scheduler.Scheduler
	repo     task.Repository
	logger   *slog.Logger
	notifier Notifier
	metrics  Recorder

	copyTemplate *task.ScheduledTask
	resize       *store.ResizeSession

	sync    SyncStatus
	saveErr error
	last    Notice
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithNotifier sets the receiver of user notices.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// New creates an engine. repo may be nil, in which case state lives only
// in memory and the sync status stays offline.
func New(s *store.Store, repo task.Repository, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		sched:  scheduler.New(s.Grid()),
		repo:   repo,
		logger: logging.Discard(),
		sync:   SyncOffline,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store for read access.
func (e *Engine) Store() *store.Store {
	return e.store
}

// State returns a read-only copy of both lists for renderers.
func (e *Engine) State() task.Snapshot {
	return e.store.Snapshot()
}

// SyncStatus reports the outcome of the last durable write.
func (e *Engine) SyncStatus() SyncStatus {
	return e.sync
}

// LastSaveErr returns the error of the last failed write, or nil after a
// successful one.
func (e *Engine) LastSaveErr() error {
	return e.saveErr
}

// LastNotice returns the most recent notice.
func (e *Engine) LastNotice() Notice {
	return e.last
}

// Load replaces the in-memory state with the repository contents.
func (e *Engine) Load(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}
	snap, err := e.repo.Load(ctx)
	if err != nil {
		e.logger.Error("loading state", logging.Err(err))
		e.notify(SeverityError, "could not load saved data")
		return fmt.Errorf("loading state: %w", err)
	}
	e.clearGestures()
	if err := e.store.Restore(snap); err != nil {
		e.logger.Error("restoring state", logging.Err(err))
		e.notify(SeverityError, "saved data is inconsistent")
		return fmt.Errorf("restoring state: %w", err)
	}
	e.sync = SyncSynced
	e.logger.Debug("state loaded", slog.Int("tasks", len(snap.Tasks)), slog.Int("scheduled", len(snap.ScheduledTasks)))
	e.recordSizes()
	return nil
}

// CreateTask adds a task to the pool.
func (e *Engine) CreateTask(ctx context.Context, d task.Draft) (task.Task, error) {
	return run(ctx, e, "create_task", "task created", func() (task.Task, error) {
		return e.store.AddTask(d)
	})
}

// EditTask updates a pool task and the instances scheduled from it.
func (e *Engine) EditTask(ctx context.Context, id string, f task.Fields) (task.Task, error) {
	return run(ctx, e, "edit_task", "task updated", func() (task.Task, error) {
		return e.store.UpdateTask(id, f)
	})
}

// DeleteTask removes a pool task and its linked instances.
// Deleting an unknown id is a no-op and is not persisted.
func (e *Engine) DeleteTask(ctx context.Context, id string) bool {
	if e.resizeBlocks("delete_task") != nil {
		return false
	}
	if !e.store.RemoveTask(id) {
		e.logger.Debug("delete of unknown task ignored", logging.TaskID(id))
		e.observe("delete_task", task.ErrNotFound)
		return false
	}
	e.observe("delete_task", nil)
	e.persist(ctx, "delete_task")
	e.notify(SeveritySuccess, "task deleted")
	return true
}

// DropPoolTask schedules a pool task at the cell it was dropped on.
func (e *Engine) DropPoolTask(ctx context.Context, taskID string, day, slot int) (task.ScheduledTask, error) {
	return run(ctx, e, "schedule", "task scheduled", func() (task.ScheduledTask, error) {
		return e.store.Schedule(taskID, day, slot)
	})
}

// AutoPlace schedules a pool task at the first free range at or after
// (fromDay, fromSlot).
func (e *Engine) AutoPlace(ctx context.Context, taskID string, fromDay, fromSlot int) (task.ScheduledTask, error) {
	return run(ctx, e, "auto_place", "task scheduled", func() (task.ScheduledTask, error) {
		t, err := e.store.FindTask(taskID)
		if err != nil {
			return task.ScheduledTask{}, err
		}
		slots := e.store.Grid().SlotsForDuration(t.Duration)
		day, slot, ok := e.sched.NextFreeInWeek(e.store.Scheduled(), fromDay, fromSlot, slots, "")
		if !ok {
			return task.ScheduledTask{}, ErrNoFreeSlot
		}
		return e.store.Schedule(taskID, day, slot)
	})
}

// DropScheduled moves an instance to the cell it was dropped on.
func (e *Engine) DropScheduled(ctx context.Context, id string, day, slot int) (task.ScheduledTask, error) {
	return run(ctx, e, "move", "task moved", func() (task.ScheduledTask, error) {
		return e.store.MoveScheduled(id, day, slot)
	})
}

// ReturnToPool takes an instance off the grid and back into the pool.
func (e *Engine) ReturnToPool(ctx context.Context, id string) (task.Task, error) {
	return run(ctx, e, "return", "task returned to the list", func() (task.Task, error) {
		return e.store.ReturnToPool(id)
	})
}

// DeleteScheduled discards an instance.
func (e *Engine) DeleteScheduled(ctx context.Context, id string) error {
	_, err := run(ctx, e, "unschedule", "scheduled task removed", func() (struct{}, error) {
		if !e.store.DeleteScheduled(id) {
			return struct{}{}, fmt.Errorf("%w: scheduled task %s", task.ErrNotFound, id)
		}
		return struct{}{}, nil
	})
	return err
}

// Import replaces both lists with snap after validating it. Pending
// gestures are dropped first.
func (e *Engine) Import(ctx context.Context, snap task.Snapshot) error {
	e.clearGestures()
	_, err := run(ctx, e, "import", "data imported", func() (struct{}, error) {
		return struct{}{}, e.store.Restore(snap)
	})
	return err
}

// Export returns the current state for writing to a file.
func (e *Engine) Export() task.Snapshot {
	return e.store.Snapshot()
}

// run applies fn, then records, persists and notifies according to its outcome.
// Nothing runs while a resize preview is open, so a preview is never saved.
func run[T any](ctx context.Context, e *Engine, op, success string, fn func() (T, error)) (T, error) {
	if err := e.resizeBlocks(op); err != nil {
		var zero T
		return zero, err
	}
	v, err := fn()
	e.observe(op, err)
	if err != nil {
		e.reject(op, err)
		return v, err
	}
	e.logger.Debug("operation applied", logging.Operation(op))
	e.persist(ctx, op)
	e.notify(SeveritySuccess, success)
	return v, nil
}

// resizeBlocks rejects op while a resize gesture is open.
func (e *Engine) resizeBlocks(op string) error {
	if e.resize == nil {
		return nil
	}
	e.observe(op, ErrResizeActive)
	e.reject(op, ErrResizeActive)
	return ErrResizeActive
}

// reject reports a failed command.
func (e *Engine) reject(op string, err error) {
	log := logging.WithOperation(e.logger, op)
	switch task.KindOf(err) {
	case task.KindNotFound:
		log.Debug("target not found", logging.Err(err))
	case task.KindConflict:
		log.Info("placement rejected", logging.Err(err))
		e.notify(SeverityError, err.Error())
	case task.KindValidation:
		log.Info("invalid input", logging.Err(err))
		e.notify(SeverityError, err.Error())
	default:
		log.Error("operation failed", logging.Err(err))
		e.notify(SeverityError, err.Error())
	}
}

// persist writes the snapshot. Failures are reported, not rolled back.
func (e *Engine) persist(ctx context.Context, op string) {
	e.recordSizes()
	if e.repo == nil {
		return
	}
	e.sync = SyncSaving
	start := time.Now()
	err := e.repo.Save(ctx, e.store.Snapshot())
	if e.metrics != nil {
		e.metrics.ObserveSave(time.Since(start), err)
	}
	if err != nil {
		e.sync = SyncSaveFailed
		e.saveErr = err
		logging.WithOperation(e.logger, op).Warn("saving state", logging.Err(err))
		e.notify(SeverityWarning, "changes kept in memory but could not be saved")
		return
	}
	e.sync = SyncSynced
	e.saveErr = nil
}

func (e *Engine) observe(op string, err error) {
	if e.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = task.KindOf(err).String()
	}
	e.metrics.ObserveOperation(op, result)
}

func (e *Engine) recordSizes() {
	if e.metrics != nil {
		snap := e.store.Snapshot()
		e.metrics.SetSizes(len(snap.Tasks), len(snap.ScheduledTasks))
	}
}

func (e *Engine) notify(sev Severity, msg string) {
	n := Notice{Severity: sev, Message: msg}
	e.last = n
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

func (e *Engine) clearGestures() {
	e.copyTemplate = nil
	if e.resize != nil {
		e.resize.Cancel()
		e.resize = nil
	}
}
