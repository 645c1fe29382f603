package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskboard/backend/api/transport"
	"github.com/taskboard/backend/pkg/httpcontext"
	taskUC "github.com/taskboard/backend/usecase/task"
)

type HealthHandler struct {
	baseHandler
	uc      *taskUC.UseCase
	backend string
}

func NewHealthHandler(uc *taskUC.UseCase, backend string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		backend:     backend,
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.uc.CountTasks(stdCtx)
	if err != nil {
		h.respondJSON(ctx, http.StatusServiceUnavailable,
			transport.NewErrorResponse("DEGRADED", "task storage unavailable", ""))
		return
	}

	h.respondJSON(ctx, http.StatusOK, transport.HealthResponse{
		Status:    "ok",
		Backend:   h.backend,
		TaskCount: count,
		Timestamp: time.Now().UnixMilli(),
	})
}
