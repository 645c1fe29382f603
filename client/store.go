package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/domain"
)

// TempIDPrefix marks locally generated placeholder ids so they can never
// collide with server-assigned UUIDs.
const TempIDPrefix = "tmp-"

// IsTempID reports whether id belongs to an unconfirmed optimistic task.
func IsTempID(id string) bool {
	return len(id) > len(TempIDPrefix) && id[:len(TempIDPrefix)] == TempIDPrefix
}

// Notifier receives mutation failures. retry, when invoked, replays the
// identical mutation with identical arguments; the store never retries
// on its own.
type Notifier interface {
	ShowError(message string, retry func())
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, retry func())

func (f NotifierFunc) ShowError(message string, retry func()) {
	f(message, retry)
}

// Store holds the client's authoritative view of the task list. Every
// mutation is applied optimistically before the network call and either
// confirmed by the server response or rolled back from a per-task
// snapshot taken just before the mutation. Concurrent readers observe
// the optimistic state while a request is in flight.
//
// Mutations on the same task are not serialized: if two overlap, the
// slower settle wins. Pending is therefore a count, so a task stays
// pending until every in-flight mutation against it has settled.
type Store struct {
	api      API
	notifier Notifier

	now       func() time.Time
	newTempID func() string

	mu      sync.Mutex
	tasks   []domain.Task
	pending map[string]int
	loading bool
	lastErr error
}

// NewStore builds a store over api. notifier may be nil, in which case
// failures are only reported through the returned errors.
func NewStore(api API, notifier Notifier) *Store {
	return &Store{
		api:       api,
		notifier:  notifier,
		now:       time.Now,
		newTempID: func() string { return TempIDPrefix + uuid.NewString() },
		pending:   make(map[string]int),
	}
}

// Load replaces the local collection with the server's, newest first.
// On failure the previous collection is kept and the error is surfaced
// with a retry that re-invokes Load.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.api.ListTasks(ctx, "")

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.fail(err, func() { _ = s.Load(context.WithoutCancel(ctx)) })
		return err
	}
	domain.SortNewestFirst(tasks)
	s.tasks = tasks
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Create validates content, inserts an optimistic placeholder at the
// front of the list, and replaces it with the server's task on success.
// On failure the placeholder is removed, so the list never shows a task
// whose create is known to have failed.
func (s *Store) Create(ctx context.Context, content string) error {
	trimmed, err := domain.ValidateContent(content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if domain.IsDuplicate(trimmed, s.tasks, "") {
		s.mu.Unlock()
		return domain.ErrDuplicateTask
	}
	tmpID := s.newTempID()
	placeholder := domain.Task{
		ID:        tmpID,
		Content:   trimmed,
		Status:    domain.StatusTodo,
		CreatedAt: s.now().UnixMilli(),
	}
	s.tasks = append([]domain.Task{placeholder}, s.tasks...)
	s.pending[tmpID]++
	s.mu.Unlock()

	created, err := s.api.CreateTask(ctx, trimmed)

	s.mu.Lock()
	s.release(tmpID)
	if err != nil {
		if idx := s.indexOf(tmpID); idx >= 0 {
			s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		}
		s.lastErr = err
		s.mu.Unlock()
		s.fail(err, func() { _ = s.Create(context.WithoutCancel(ctx), content) })
		return err
	}
	if idx := s.indexOf(tmpID); idx >= 0 {
		s.tasks[idx] = *created
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Update merges a partial update into an existing task optimistically,
// preserving id and createdAt, then confirms with the server response or
// restores the pre-mutation value of that task.
func (s *Store) Update(ctx context.Context, id string, patch TaskPatch) error {
	if patch.Content == nil && patch.Status == nil {
		return domain.NewError(domain.ErrCodeMissingField, "update requires content or status")
	}
	if patch.Status != nil {
		if err := domain.ValidateStatus(*patch.Status); err != nil {
			return err
		}
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}

	merged := s.tasks[idx]
	sent := patch
	if patch.Content != nil {
		trimmed, err := domain.ValidateContent(*patch.Content)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if domain.IsDuplicate(trimmed, s.tasks, id) {
			s.mu.Unlock()
			return domain.ErrDuplicateTask
		}
		merged.Content = trimmed
		sent.Content = &trimmed
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}

	snapshot := s.tasks[idx]
	s.tasks[idx] = merged
	s.pending[id]++
	s.mu.Unlock()

	updated, err := s.api.UpdateTask(ctx, id, sent)

	s.mu.Lock()
	s.release(id)
	if err != nil {
		if j := s.indexOf(id); j >= 0 {
			s.tasks[j] = snapshot
		}
		s.lastErr = err
		s.mu.Unlock()
		s.fail(err, func() { _ = s.Update(context.WithoutCancel(ctx), id, patch) })
		return err
	}
	if j := s.indexOf(id); j >= 0 {
		s.tasks[j] = *updated
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// UpdateStatus moves a task to another column. The optimistic apply
// regroups the list by status and places the moved task at the head of
// its new group, so just-moved items show first. Rollback restores the
// task's prior value and re-applies the standard group ordering.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if err := domain.ValidateStatus(status); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}

	snapshot := s.tasks[idx]
	s.tasks[idx].Status = status
	s.regroupWithHead(id)
	s.pending[id]++
	s.mu.Unlock()

	updated, err := s.api.UpdateTaskStatus(ctx, id, status)

	s.mu.Lock()
	s.release(id)
	if err != nil {
		if j := s.indexOf(id); j >= 0 {
			s.tasks[j] = snapshot
			domain.SortByStatusGroup(s.tasks)
		}
		s.lastErr = err
		s.mu.Unlock()
		s.fail(err, func() { _ = s.UpdateStatus(context.WithoutCancel(ctx), id, status) })
		return err
	}
	if j := s.indexOf(id); j >= 0 {
		s.tasks[j] = *updated
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Delete removes a task optimistically and restores it at its previous
// position if the server rejects the delete.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrTaskNotFound
	}

	snapshot := s.tasks[idx]
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.pending[id]++
	s.mu.Unlock()

	err := s.api.DeleteTask(ctx, id)

	s.mu.Lock()
	s.release(id)
	if err != nil {
		pos := idx
		if pos > len(s.tasks) {
			pos = len(s.tasks)
		}
		s.tasks = append(s.tasks[:pos], append([]domain.Task{snapshot}, s.tasks[pos:]...)...)
		s.lastErr = err
		s.mu.Unlock()
		s.fail(err, func() { _ = s.Delete(context.WithoutCancel(ctx), id) })
		return err
	}
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Tasks returns a copy of the current collection in display order.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// TasksByStatus returns the subset matching status, in collection order.
func (s *Store) TasksByStatus(status domain.Status) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FilterByStatus(s.tasks, status)
}

// IsPending reports whether id has a mutation in flight.
func (s *Store) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[id] > 0
}

// IsLoading reports whether the initial load is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent mutation failure, or nil after a
// successful operation.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// fail forwards a settled failure to the notifier exactly once.
func (s *Store) fail(err error, retry func()) {
	if s.notifier != nil {
		s.notifier.ShowError(err.Error(), retry)
	}
}

// release decrements the pending count for id. Callers hold the lock.
func (s *Store) release(id string) {
	if s.pending[id] <= 1 {
		delete(s.pending, id)
		return
	}
	s.pending[id]--
}

// indexOf returns the position of id, or -1. Callers hold the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func statusOrder(status domain.Status) int {
	for i, v := range domain.Statuses {
		if v == status {
			return i
		}
	}
	return len(domain.Statuses)
}

// regroupWithHead sorts the collection by status group and inserts the
// task identified by id at the head of its group. Callers hold the lock.
func (s *Store) regroupWithHead(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	moved := s.tasks[idx]
	rest := append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	domain.SortByStatusGroup(rest)

	pos := len(rest)
	for i := range rest {
		if statusOrder(rest[i].Status) >= statusOrder(moved.Status) {
			pos = i
			break
		}
	}
	s.tasks = append(rest[:pos:pos], append([]domain.Task{moved}, rest[pos:]...)...)
}
