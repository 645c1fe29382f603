package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Content length bounds in characters, measured after trimming
// surrounding whitespace.
const (
	MinContentLength = 2
	MaxContentLength = 2000
)

// ValidateContent trims content and checks the length bounds. It returns
// the trimmed value that callers must store.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) < MinContentLength {
		return "", NewFieldError(ErrCodeValidation, "content",
			fmt.Sprintf("content must be at least %d characters", MinContentLength))
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", NewFieldError(ErrCodeValidation, "content",
			fmt.Sprintf("content must be at most %d characters", MaxContentLength))
	}
	return trimmed, nil
}

// ValidateStatus checks status against the exact enumerated values.
// Case variants are rejected.
func ValidateStatus(status Status) error {
	switch status {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return nil
	case "":
		return NewFieldError(ErrCodeMissingField, "status", "status is required")
	default:
		return NewFieldError(ErrCodeInvalidStatus, "status",
			fmt.Sprintf("status must be one of: %s, %s, %s", StatusTodo, StatusInProgress, StatusCompleted))
	}
}

// ValidateID checks that id is a well-formed UUID.
func ValidateID(id string) error {
	if id == "" {
		return NewFieldError(ErrCodeMissingField, "id", "task id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewFieldError(ErrCodeInvalidID, "id", "task id must be a valid UUID")
	}
	return nil
}

// IsDuplicate reports whether content collides with an existing task.
// Two tasks collide when the trimmed first lines of their content match
// case-insensitively; excludeID skips the task currently being edited.
// An empty candidate first line never matches.
func IsDuplicate(content string, existing []Task, excludeID string) bool {
	candidate := strings.ToLower(FirstLine(content))
	if candidate == "" {
		return false
	}
	for _, t := range existing {
		if t.ID == excludeID {
			continue
		}
		if strings.ToLower(t.Title()) == candidate {
			return true
		}
	}
	return false
}
