package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskboard/backend/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// Middleware wraps a request handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, mw Middleware) *router.Router {
	r := router.New()

	if mw == nil {
		mw = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}

	r.GET("/health", mw(handlers.Health.Check))

	r.GET("/tasks", mw(handlers.Task.GetTasks))
	r.POST("/tasks", mw(handlers.Task.CreateTask))
	r.PUT("/tasks/{id}", mw(handlers.Task.UpdateTask))
	r.PATCH("/tasks/{id}", mw(handlers.Task.UpdateTask))
	r.PATCH("/tasks/{id}/status", mw(handlers.Task.UpdateTaskStatus))
	r.DELETE("/tasks/{id}", mw(handlers.Task.DeleteTask))

	return r
}
