package repository

import (
	"context"

	"github.com/taskboard/backend/domain"
)

// TaskFilter narrows List results. A zero filter returns every task.
type TaskFilter struct {
	Status domain.Status
}

// TaskRepository is the persistence port for tasks. List returns tasks
// newest first.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
