package transport

// CreateTaskRequest is the POST /tasks body. Content is a pointer so a
// missing field is distinguishable from an empty string.
type CreateTaskRequest struct {
	Content *string `json:"content"`
}

// UpdateTaskRequest is the PUT/PATCH /tasks/{id} body. Nil fields are
// left untouched.
type UpdateTaskRequest struct {
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

// UpdateStatusRequest is the PATCH /tasks/{id}/status body.
type UpdateStatusRequest struct {
	Status *string `json:"status"`
}
