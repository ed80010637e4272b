package exchange

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/javiermolinar/semana/internal/task"
)

// FileRepo implements task.Repository on a single JSON document.
// Writes go to a temporary file that is renamed over the target.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

// NewFileRepo creates a repository backed by path, creating its directory.
func NewFileRepo(path string) (*FileRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileRepo{path: path}, nil
}

// Path returns the document location.
func (r *FileRepo) Path() string {
	return r.path
}

// Load reads the document. A missing file yields an empty snapshot.
func (r *FileRepo) Load(ctx context.Context) (task.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return task.Snapshot{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return task.Snapshot{Tasks: []task.Task{}, ScheduledTasks: []task.ScheduledTask{}}, nil
		}
		return task.Snapshot{}, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return Decode(data)
}

// Save replaces the document with s.
func (r *FileRepo) Save(ctx context.Context, s task.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".planner-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing %s: %w", r.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (r *FileRepo) Close() error {
	return nil
}
