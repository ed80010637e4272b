// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/semana/internal/task"
)

const timeLayout = time.RFC3339Nano

// SQLite implements task.Repository using SQLite.
// Save rewrites both tables in one transaction, so concurrent writers
// resolve at whole-list granularity.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
// The parent directory is created if needed.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Load returns both lists in their saved order.
func (s *SQLite) Load(ctx context.Context) (task.Snapshot, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return task.Snapshot{}, err
	}
	scheduled, err := s.loadScheduled(ctx)
	if err != nil {
		return task.Snapshot{}, err
	}
	return task.Snapshot{Tasks: tasks, ScheduledTasks: scheduled}, nil
}

func (s *SQLite) loadTasks(ctx context.Context) ([]task.Task, error) {
	query := `
		SELECT id, title, description, category, priority, duration, color, created_at, updated_at
		FROM tasks
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []task.Task{}
	for rows.Next() {
		var (
			t         task.Task
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority,
			&t.Duration, &t.Color, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if err := scanTimes(&t, createdAt, updatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLite) loadScheduled(ctx context.Context) ([]task.ScheduledTask, error) {
	query := `
		SELECT id, task_id, title, description, category, priority, duration, color,
		       day, start_slot, end_slot, created_at, updated_at
		FROM scheduled_tasks
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	scheduled := []task.ScheduledTask{}
	for rows.Next() {
		var (
			st        task.ScheduledTask
			taskID    sql.NullString
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&st.ID, &taskID, &st.Title, &st.Description, &st.Category, &st.Priority,
			&st.Duration, &st.Color, &st.Day, &st.StartSlot, &st.EndSlot, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning scheduled task: %w", err)
		}
		if taskID.Valid {
			id := taskID.String
			st.TaskID = &id
		}
		if err := scanTimes(&st.Task, createdAt, updatedAt); err != nil {
			return nil, err
		}
		scheduled = append(scheduled, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled tasks: %w", err)
	}
	return scheduled, nil
}

func scanTimes(t *task.Task, createdAt string, updatedAt sql.NullString) error {
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at for %s: %w", t.ID, err)
	}
	t.CreatedAt = created
	if updatedAt.Valid {
		updated, err := time.Parse(timeLayout, updatedAt.String)
		if err != nil {
			return fmt.Errorf("parsing updated_at for %s: %w", t.ID, err)
		}
		t.UpdatedAt = &updated
	}
	return nil
}

// Save replaces the stored lists with the snapshot atomically.
func (s *SQLite) Save(ctx context.Context, snap task.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_tasks`); err != nil {
		return fmt.Errorf("clearing scheduled tasks: %w", err)
	}

	taskStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (
			id, position, title, description, category, priority, duration, color, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing task insert: %w", err)
	}
	defer func() { _ = taskStmt.Close() }()

	for i, t := range snap.Tasks {
		if _, err := taskStmt.ExecContext(ctx,
			t.ID, i, t.Title, t.Description, t.Category, t.Priority, t.Duration, t.Color,
			t.CreatedAt.Format(timeLayout), formatOptional(t.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	stStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scheduled_tasks (
			id, position, task_id, title, description, category, priority, duration, color,
			day, start_slot, end_slot, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing scheduled task insert: %w", err)
	}
	defer func() { _ = stStmt.Close() }()

	for i, st := range snap.ScheduledTasks {
		if _, err := stStmt.ExecContext(ctx,
			st.ID, i, st.TaskID, st.Title, st.Description, st.Category, st.Priority, st.Duration, st.Color,
			st.Day, st.StartSlot, st.EndSlot, st.CreatedAt.Format(timeLayout), formatOptional(st.UpdatedAt),
		); err != nil {
			return fmt.Errorf("inserting scheduled task %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func formatOptional(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
