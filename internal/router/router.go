package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todo-api/api/handler"
)

type Handlers struct {
	Todo   *apiHandler.TodoHandler
	Health *apiHandler.HealthHandler
}

// Middleware wraps the fully-routed handler (CORS, panic recovery).
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, middlewares ...Middleware) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/todos", handlers.Todo.ListTodos)
	r.POST("/todos", handlers.Todo.CreateTodo)
	r.DELETE("/todos", handlers.Todo.DeleteAllTodos)

	r.GET("/todos/{id}", handlers.Todo.GetTodo)
	r.PUT("/todos/{id}", handlers.Todo.UpdateTodo)
	r.DELETE("/todos/{id}", handlers.Todo.DeleteTodo)
	r.PATCH("/todos/{id}/complete", handlers.Todo.CompleteTodo)
	r.PATCH("/todos/{id}/incomplete", handlers.Todo.IncompleteTodo)

	h := r.Handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
