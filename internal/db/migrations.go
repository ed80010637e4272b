package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			position    INTEGER NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL,
			priority    TEXT NOT NULL,
			duration    INTEGER NOT NULL,
			color       TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT
		);

		CREATE TABLE IF NOT EXISTS scheduled_tasks (
			id          TEXT PRIMARY KEY,
			position    INTEGER NOT NULL,
			task_id     TEXT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL,
			priority    TEXT NOT NULL,
			duration    INTEGER NOT NULL,
			color       TEXT NOT NULL,
			day         INTEGER NOT NULL CHECK(day BETWEEN 0 AND 6),
			start_slot  INTEGER NOT NULL,
			end_slot    INTEGER NOT NULL CHECK(end_slot >= start_slot),
			created_at  TEXT NOT NULL,
			updated_at  TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);
		CREATE INDEX IF NOT EXISTS idx_scheduled_position ON scheduled_tasks(position);
		CREATE INDEX IF NOT EXISTS idx_scheduled_day ON scheduled_tasks(day, start_slot);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
