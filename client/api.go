// Package client talks to the task REST API and maintains an optimistic
// local view of the board.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskboard/backend/api/transport"
	"github.com/taskboard/backend/domain"
)

// DefaultTimeout bounds every request. The network layer treats an
// exceeded deadline as a failure, never as still pending.
const DefaultTimeout = 10 * time.Second

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Content *string
	Status  *domain.Status
}

// API is the remote task surface the optimistic store mutates against.
type API interface {
	ListTasks(ctx context.Context, status domain.Status) ([]domain.Task, error)
	CreateTask(ctx context.Context, content string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Client is a fasthttp-backed API implementation.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithDial overrides the transport dial function (used by in-memory tests).
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) {
		c.http.Dial = dial
	}
}

// New builds a Client for baseURL, e.g. "http://127.0.0.1:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: DefaultTimeout,
		http:    &fasthttp.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*Client)(nil)

func (c *Client) ListTasks(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	uri := c.baseURL + "/tasks"
	if status != "" {
		uri += "?status=" + string(status)
	}
	var out transport.TaskListResponse
	if err := c.do(ctx, http.MethodGet, uri, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, content string) (*domain.Task, error) {
	body := transport.CreateTaskRequest{Content: &content}
	var out transport.TaskResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/tasks", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*domain.Task, error) {
	body := transport.UpdateTaskRequest{Content: patch.Content}
	if patch.Status != nil {
		status := string(*patch.Status)
		body.Status = &status
	}
	var out transport.TaskResponse
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/tasks/"+id, body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	raw := string(status)
	body := transport.UpdateStatusRequest{Status: &raw}
	var out transport.TaskResponse
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/tasks/"+id+"/status", body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/tasks/"+id, nil, http.StatusNoContent, nil)
}

// do issues one request with the fixed timeout and decodes the response
// into out when the expected status arrives. Other statuses are mapped
// onto the client error taxonomy.
func (c *Client) do(ctx context.Context, method, uri string, body interface{}, expect int, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapError(domain.ErrCodeNetwork, "request aborted", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "encode request", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return domain.WrapError(domain.ErrCodeTimeout, "request timed out", err)
		}
		return domain.WrapError(domain.ErrCodeNetwork, "server unreachable", err)
	}

	status := resp.StatusCode()
	if status != expect {
		return classify(status, resp.Body())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return domain.WrapError(domain.ErrCodeServer, "malformed server response", err)
		}
	}
	return nil
}

// classify maps a non-success HTTP status onto the error taxonomy,
// preserving the server's message, code, and field when the body parses.
func classify(status int, body []byte) error {
	message := fmt.Sprintf("request failed with status %d", status)
	code := domain.ErrorCode("")
	field := ""

	var envelope transport.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
		code = domain.ErrorCode(envelope.Error.Code)
		field = envelope.Error.Field
	}

	switch {
	case status >= http.StatusInternalServerError:
		return domain.NewError(domain.ErrCodeServer, message)
	case status == http.StatusNotFound:
		return domain.NewFieldError(domain.ErrCodeNotFound, field, message)
	case status == http.StatusConflict:
		return domain.NewFieldError(domain.ErrCodeConflict, field, message)
	case status == http.StatusBadRequest:
		switch code {
		case domain.ErrCodeMissingField, domain.ErrCodeInvalidStatus, domain.ErrCodeInvalidID:
			return domain.NewFieldError(code, field, message)
		default:
			return domain.NewFieldError(domain.ErrCodeValidation, field, message)
		}
	default:
		return domain.NewError(domain.ErrCodeServer, message)
	}
}
