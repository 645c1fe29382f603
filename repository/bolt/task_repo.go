// Package bolt persists tasks to a BoltDB file, one record per task.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

var bucketTasks = []byte("tasks")

// Repository is a BoltDB-backed TaskRepository.
type Repository struct {
	db *bolt.DB
}

// Open initializes the Bolt file and ensures the tasks bucket exists.
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTasks)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

var _ repository.TaskRepository = (*Repository)(nil)

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTasks).Get([]byte(id))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		var t domain.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		task = &t
		return nil
	})
	return task, err
}

func (r *Repository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(_, v []byte) error {
			var t domain.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			if filter.Status != "" && t.Status != filter.Status {
				return nil
			}
			tasks = append(tasks, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	domain.SortNewestFirst(tasks)
	return tasks, nil
}

func (r *Repository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

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

	err := r.db.Update(func(tx *bolt.Tx) error {
		return putTask(tx, &created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Repository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTasks).Get([]byte(task.ID))
		if raw == nil {
			return domain.ErrTaskNotFound
		}
		var prev domain.Task
		if err := json.Unmarshal(raw, &prev); err != nil {
			return err
		}
		task.CreatedAt = prev.CreatedAt
		return putTask(tx, task)
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketTasks).Stats().KeyN
		return nil
	})
	return count, err
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func putTask(tx *bolt.Tx, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketTasks).Put([]byte(task.ID), payload)
}
