package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskboard/backend/api/transport"
	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if payload == nil {
		ctx.ResetBody()
		return
	}
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	code := string(domain.CodeOf(err))
	message := err.Error()
	field := ""

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		field = dErr.Field
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		message = "internal server error"
	}
	h.respondJSON(ctx, status, transport.NewErrorResponse(code, message, field))
}

func statusFor(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrCodeValidation, domain.ErrCodeMissingField,
		domain.ErrCodeInvalidStatus, domain.ErrCodeInvalidID:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
