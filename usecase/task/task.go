// Package task implements the server-side task service: input
// validation, duplicate detection, and persistence orchestration.
package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	appLogger "github.com/taskboard/backend/pkg/logger"
	"github.com/taskboard/backend/repository"
)

// Patch carries a partial task update. Nil fields are left untouched.
type Patch struct {
	Content *string
	Status  *domain.Status
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// log enriches the base logger with the request id carried in ctx.
func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}

// ListTasks returns tasks newest first, optionally filtered by status.
func (uc *UseCase) ListTasks(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	if status != "" {
		if err := domain.ValidateStatus(status); err != nil {
			return nil, err
		}
	}
	return uc.tasks.List(ctx, repository.TaskFilter{Status: status})
}

// CreateTask validates content, rejects first-line duplicates, and
// persists a new todo task.
func (uc *UseCase) CreateTask(ctx context.Context, content string) (*domain.Task, error) {
	trimmed, err := domain.ValidateContent(content)
	if err != nil {
		return nil, err
	}

	existing, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	if domain.IsDuplicate(trimmed, existing, "") {
		return nil, domain.ErrDuplicateTask
	}

	created, err := uc.tasks.Create(ctx, &domain.Task{
		Content: trimmed,
		Status:  domain.StatusTodo,
	})
	if err != nil {
		return nil, err
	}
	uc.log(ctx).Info("task created", zap.String("task_id", created.ID))
	return created, nil
}

// UpdateTask applies a partial update to an existing task. CreatedAt is
// preserved by the repository.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch Patch) (*domain.Task, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	if patch.Content == nil && patch.Status == nil {
		return nil, domain.NewError(domain.ErrCodeMissingField, "update requires content or status")
	}

	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if patch.Content != nil {
		trimmed, err := domain.ValidateContent(*patch.Content)
		if err != nil {
			return nil, err
		}
		existing, err := uc.tasks.List(ctx, repository.TaskFilter{})
		if err != nil {
			return nil, err
		}
		if domain.IsDuplicate(trimmed, existing, id) {
			return nil, domain.ErrDuplicateTask
		}
		updated.Content = trimmed
	}
	if patch.Status != nil {
		if err := domain.ValidateStatus(*patch.Status); err != nil {
			return nil, err
		}
		updated.Status = *patch.Status
	}

	if err := uc.tasks.Update(ctx, &updated); err != nil {
		return nil, err
	}
	uc.log(ctx).Info("task updated", zap.String("task_id", id))
	return &updated, nil
}

// UpdateTaskStatus moves a task to another status column.
func (uc *UseCase) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	if err := domain.ValidateStatus(status); err != nil {
		return nil, err
	}

	current, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Status = status
	if err := uc.tasks.Update(ctx, &updated); err != nil {
		return nil, err
	}
	uc.log(ctx).Info("task status updated",
		zap.String("task_id", id),
		zap.String("status", string(status)))
	return &updated, nil
}

// DeleteTask removes a task.
func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.log(ctx).Info("task deleted", zap.String("task_id", id))
	return nil
}

// CountTasks reports the stored task count for the health endpoint.
func (uc *UseCase) CountTasks(ctx context.Context) (int, error) {
	return uc.tasks.Count(ctx)
}
