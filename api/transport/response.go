package transport

import "github.com/taskboard/backend/domain"

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task domain.Task `json:"task"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// ErrorBody describes a failed request. Field is set when the error is
// attributable to a single input field.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse is the envelope every 4xx/5xx response carries.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds the wire error envelope.
func NewErrorResponse(code, message, field string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Message: message,
		Code:    code,
		Field:   field,
	}}
}

// HealthResponse reports storage state for the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Backend   string `json:"backend"`
	TaskCount int    `json:"taskCount"`
	Timestamp int64  `json:"timestamp"`
}
