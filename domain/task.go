package domain

import (
	"sort"
	"strings"
)

// Status enumerates the board columns a task can occupy.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists all valid statuses in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Task represents a single board item. Content is the sole source of
// truth for display text; its first line acts as the task title.
type Task struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Status    Status `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

// Title returns the trimmed first line of the task content.
func (t *Task) Title() string {
	return FirstLine(t.Content)
}

// IsCompleted reports whether the task sits in the completed column.
func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// FirstLine extracts the trimmed first line of a content string.
func FirstLine(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	return strings.TrimSpace(line)
}

func statusRank(s Status) int {
	switch s {
	case StatusTodo:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// SortNewestFirst orders tasks by creation time descending. This is the
// plain listing order used on load and by the repositories.
func SortNewestFirst(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})
}

// SortByStatusGroup orders tasks by status group (todo, in-progress,
// completed) and newest first within each group. Used after a status
// change regroups the board.
func SortByStatusGroup(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := statusRank(tasks[i].Status), statusRank(tasks[j].Status)
		if ri != rj {
			return ri < rj
		}
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})
}

// FilterByStatus returns the tasks matching status, preserving order.
func FilterByStatus(tasks []Task, status Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
