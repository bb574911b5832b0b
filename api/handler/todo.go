package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo-api/api/transport"
	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/pkg/httpcontext"
	"github.com/fastygo/todo-api/repository"
)

// todoService is the slice of the todo usecase the handler depends on.
type todoService interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (*domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Update(ctx context.Context, id int64, patch repository.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Complete(ctx context.Context, id int64) (*domain.Todo, error)
	Incomplete(ctx context.Context, id int64) (*domain.Todo, error)
}

type TodoHandler struct {
	baseHandler
	todos todoService
}

func NewTodoHandler(todos todoService, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		todos:       todos,
	}
}

// @Summary List todos
// @Tags todos
// @Router /todos [get]
func (h *TodoHandler) ListTodos(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todos, err := h.todos.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTodoListResponse(todos))
}

// @Summary Get todo
// @Tags todos
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodo(ctx *fasthttp.RequestCtx) {
	id, ok := h.todoID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todo, err := h.todos.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTodoResponse(todo))
}

// @Summary Create todo
// @Tags todos
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTodoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "Validation error", err))
		return
	}

	todo, err := req.Validate()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.todos.Create(stdCtx, todo)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTodoResponse(created))
}

// @Summary Update todo
// @Tags todos
// @Router /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(ctx *fasthttp.RequestCtx) {
	id, ok := h.todoID(ctx)
	if !ok {
		return
	}

	var req transport.UpdateTodoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "Validation error", err))
		return
	}

	patch, err := req.Patch()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.todos.Update(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTodoResponse(updated))
}

// @Summary Delete todo
// @Tags todos
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(ctx *fasthttp.RequestCtx) {
	id, ok := h.todoID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.todos.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusNoContent, nil)
}

// @Summary Delete all todos
// @Tags todos
// @Router /todos [delete]
func (h *TodoHandler) DeleteAllTodos(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.todos.DeleteAll(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusNoContent, nil)
}

// @Summary Mark todo complete
// @Tags todos
// @Router /todos/{id}/complete [patch]
func (h *TodoHandler) CompleteTodo(ctx *fasthttp.RequestCtx) {
	h.setCompletion(ctx, h.todos.Complete)
}

// @Summary Mark todo incomplete
// @Tags todos
// @Router /todos/{id}/incomplete [patch]
func (h *TodoHandler) IncompleteTodo(ctx *fasthttp.RequestCtx) {
	h.setCompletion(ctx, h.todos.Incomplete)
}

func (h *TodoHandler) setCompletion(ctx *fasthttp.RequestCtx, op func(context.Context, int64) (*domain.Todo, error)) {
	id, ok := h.todoID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := op(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTodoResponse(updated))
}

func (h *TodoHandler) todoID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Detail: "invalid todo id"})
		return 0, false
	}
	return id, true
}
