package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/repository"
	todoUC "github.com/fastygo/todo-api/usecase/todo"
)

// memRepo is an in-memory TodoRepository so handler tests exercise the real
// usecase end to end.
type memRepo struct {
	todos  map[int64]domain.Todo
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{todos: map[int64]domain.Todo{}}
}

func (r *memRepo) Create(_ context.Context, todo *domain.Todo) (*domain.Todo, error) {
	r.nextID++
	stored := *todo
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.todos[stored.ID] = stored
	out := stored
	return &out, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	out := todo
	return &out, nil
}

func (r *memRepo) List(_ context.Context) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, todo := range r.todos {
		out = append(out, todo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int64, patch repository.TodoPatch) (*domain.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.SetDescription {
		todo.Description = patch.Description
	}
	if patch.SetDueDate {
		todo.DueDate = patch.DueDate
	}
	if patch.IsCompleted != nil {
		todo.IsCompleted = *patch.IsCompleted
	}
	r.todos[id] = todo
	out := todo
	return &out, nil
}

func (r *memRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.todos[id]; !ok {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

func (r *memRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(r.todos))
	r.todos = map[int64]domain.Todo{}
	return count, nil
}

func (r *memRepo) SetCompleted(_ context.Context, id int64, completed bool) (*domain.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	todo.IsCompleted = completed
	r.todos[id] = todo
	out := todo
	return &out, nil
}

func newTestHandler() (*TodoHandler, *memRepo) {
	repo := newMemRepo()
	return NewTodoHandler(todoUC.New(repo, nil, nil), nil, nil), repo
}

func doRequest(method, uri string, body []byte, userValues map[string]interface{}) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	for k, v := range userValues {
		ctx.SetUserValue(k, v)
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}

func idValue(id int64) map[string]interface{} {
	return map[string]interface{}{"id": fmt.Sprintf("%d", id)}
}

func createTodo(t *testing.T, h *TodoHandler, body string) int64 {
	t.Helper()
	ctx := doRequest(http.MethodPost, "/todos", []byte(body), nil)
	h.CreateTodo(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode(), "body: %s", ctx.Response.Body())
	return int64(decodeBody(t, ctx)["id"].(float64))
}

func TestCreateTodoResponse(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPost, "/todos", []byte(`{"title":"New Todo","due_date":"2024-12-31"}`), nil)
	h.CreateTodo(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	body := decodeBody(t, ctx)
	assert.Equal(t, "New Todo", body["title"])
	assert.Equal(t, "2024-12-31", body["due_date"])
	assert.Equal(t, false, body["is_completed"])
	assert.NotEmpty(t, body["created_at"])
}

func TestCreateTodoBlankTitle(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPost, "/todos", []byte(`{"title":""}`), nil)
	h.CreateTodo(ctx)

	assert.Equal(t, http.StatusUnprocessableEntity, ctx.Response.StatusCode())
	assert.Equal(t, "Title cannot be empty", decodeBody(t, ctx)["detail"])
}

func TestCreateTodoMalformedBody(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPost, "/todos", []byte(`{"title":`), nil)
	h.CreateTodo(ctx)

	assert.Equal(t, http.StatusUnprocessableEntity, ctx.Response.StatusCode())
	assert.Contains(t, decodeBody(t, ctx)["detail"], "Validation error")
}

func TestCreateTodoEmptyDueDateIsNull(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPost, "/todos", []byte(`{"title":"t","due_date":""}`), nil)
	h.CreateTodo(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	body := decodeBody(t, ctx)
	assert.Nil(t, body["due_date"])
}

func TestGetTodoNotFound(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodGet, "/todos/999", nil, map[string]interface{}{"id": "999"})
	h.GetTodo(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Todo with id 999 not found", decodeBody(t, ctx)["detail"])
}

func TestGetTodoInvalidID(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodGet, "/todos/abc", nil, map[string]interface{}{"id": "abc"})
	h.GetTodo(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestListTodosEmptyArray(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodGet, "/todos", nil, nil)
	h.ListTodos(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "[]", string(ctx.Response.Body()))
}

func TestUpdateTodoPartial(t *testing.T) {
	h, _ := newTestHandler()
	id := createTodo(t, h, `{"title":"Original","description":"keep","due_date":"2025-04-01"}`)

	ctx := doRequest(http.MethodPut, "/todos/1", []byte(`{"title":"Renamed"}`), idValue(id))
	h.UpdateTodo(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	body := decodeBody(t, ctx)
	assert.Equal(t, "Renamed", body["title"])
	assert.Equal(t, "keep", body["description"])
	assert.Equal(t, "2025-04-01", body["due_date"])
}

func TestUpdateTodoClearsDueDate(t *testing.T) {
	h, _ := newTestHandler()
	id := createTodo(t, h, `{"title":"t","due_date":"2025-04-01"}`)

	ctx := doRequest(http.MethodPut, "/todos/1", []byte(`{"due_date":""}`), idValue(id))
	h.UpdateTodo(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Nil(t, decodeBody(t, ctx)["due_date"])
}

func TestUpdateTodoNotFound(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPut, "/todos/41", []byte(`{"title":"x"}`), idValue(41))
	h.UpdateTodo(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Todo with id 41 not found", decodeBody(t, ctx)["detail"])
}

func TestDeleteTodoLifecycle(t *testing.T) {
	h, _ := newTestHandler()
	id := createTodo(t, h, `{"title":"t"}`)

	ctx := doRequest(http.MethodDelete, "/todos/1", nil, idValue(id))
	h.DeleteTodo(ctx)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body())

	ctx = doRequest(http.MethodGet, "/todos/1", nil, idValue(id))
	h.GetTodo(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	ctx = doRequest(http.MethodDelete, "/todos/1", nil, idValue(id))
	h.DeleteTodo(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestDeleteAllTodos(t *testing.T) {
	h, repo := newTestHandler()
	createTodo(t, h, `{"title":"a"}`)
	createTodo(t, h, `{"title":"b"}`)

	ctx := doRequest(http.MethodDelete, "/todos", nil, nil)
	h.DeleteAllTodos(ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, repo.todos)

	// delete-all on an already empty table still succeeds
	ctx = doRequest(http.MethodDelete, "/todos", nil, nil)
	h.DeleteAllTodos(ctx)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
}

func TestCompleteTodoTwice(t *testing.T) {
	h, _ := newTestHandler()
	id := createTodo(t, h, `{"title":"t"}`)

	ctx := doRequest(http.MethodPatch, "/todos/1/complete", nil, idValue(id))
	h.CompleteTodo(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, true, decodeBody(t, ctx)["is_completed"])

	ctx = doRequest(http.MethodPatch, "/todos/1/complete", nil, idValue(id))
	h.CompleteTodo(ctx)
	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())
	assert.Equal(t, "Todo with id 1 is already completed", decodeBody(t, ctx)["detail"])
}

func TestCompleteTodoMissing(t *testing.T) {
	h, _ := newTestHandler()

	ctx := doRequest(http.MethodPatch, "/todos/999/complete", nil, map[string]interface{}{"id": "999"})
	h.CompleteTodo(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "Todo with id 999 not found", decodeBody(t, ctx)["detail"])
}

func TestIncompleteRoundTrip(t *testing.T) {
	h, _ := newTestHandler()
	id := createTodo(t, h, `{"title":"t"}`)

	ctx := doRequest(http.MethodPatch, "/todos/1/incomplete", nil, idValue(id))
	h.IncompleteTodo(ctx)
	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())

	ctx = doRequest(http.MethodPatch, "/todos/1/complete", nil, idValue(id))
	h.CompleteTodo(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = doRequest(http.MethodPatch, "/todos/1/incomplete", nil, idValue(id))
	h.IncompleteTodo(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, false, decodeBody(t, ctx)["is_completed"])
}
