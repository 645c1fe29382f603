// Package jsonfile persists tasks to a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

// document is the on-disk file shape.
type document struct {
	Tasks []domain.Task `json:"tasks"`
}

// Repository keeps the full task list in memory and rewrites the file
// atomically on every mutation.
type Repository struct {
	path string

	mu    sync.RWMutex
	tasks []domain.Task
}

// Open loads the task file at path, creating an empty store if the file
// does not exist yet.
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	r := &Repository{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	r.tasks = doc.Tasks
	return r, nil
}

var _ repository.TaskRepository = (*Repository)(nil)

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *Repository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	domain.SortNewestFirst(out)
	return out, nil
}

func (r *Repository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *task
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = domain.StatusTodo
	}
	if created.CreatedAt == 0 {
		created.CreatedAt = time.Now().UnixMilli()
	}

	r.tasks = append(r.tasks, created)
	if err := r.persist(); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		return nil, err
	}
	return &created, nil
}

func (r *Repository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID != task.ID {
			continue
		}
		prev := r.tasks[i]
		updated := *task
		// CreatedAt is immutable after creation.
		updated.CreatedAt = prev.CreatedAt
		r.tasks[i] = updated
		if err := r.persist(); err != nil {
			r.tasks[i] = prev
			return err
		}
		*task = updated
		return nil
	}
	return domain.ErrTaskNotFound
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID != id {
			continue
		}
		prev := r.tasks[i]
		r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
		if err := r.persist(); err != nil {
			r.tasks = append(r.tasks[:i], append([]domain.Task{prev}, r.tasks[i:]...)...)
			return err
		}
		return nil
	}
	return domain.ErrTaskNotFound
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks), nil
}

func (r *Repository) Close() error {
	return nil
}

// persist writes the document to a temp file and renames it over the
// target, so a crash mid-write never leaves a truncated task file.
// Callers hold the write lock.
func (r *Repository) persist() error {
	doc := document{Tasks: r.tasks}
	if doc.Tasks == nil {
		doc.Tasks = []domain.Task{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}
