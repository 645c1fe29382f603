package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskboard/backend/api/transport"
	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/pkg/httpcontext"
	taskUC "github.com/taskboard/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// GetTasks handles GET /tasks with an optional status filter.
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	status := domain.Status(ctx.QueryArgs().Peek("status"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	h.respondJSON(ctx, http.StatusOK, transport.TaskListResponse{Tasks: tasks})
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if req.Content == nil {
		h.respondError(ctx, domain.NewFieldError(domain.ErrCodeMissingField, "content", "content is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, *req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.TaskResponse{Task: *created})
}

// UpdateTask handles PUT and PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	var req transport.UpdateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	patch := taskUC.Patch{Content: req.Content}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TaskResponse{Task: *updated})
}

// UpdateTaskStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) UpdateTaskStatus(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	var req transport.UpdateStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if req.Status == nil {
		h.respondError(ctx, domain.NewFieldError(domain.ErrCodeMissingField, "status", "status is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTaskStatus(stdCtx, id, domain.Status(*req.Status))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TaskResponse{Task: *updated})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusNoContent, nil)
}
