package transport

import (
	"time"

	"github.com/fastygo/todo-api/domain"
)

// DateOnly marshals a timestamp as its calendar date.
type DateOnly time.Time

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(dateLayout) + `"`), nil
}

// TodoResponse is the wire shape of a todo: due_date serializes as a
// calendar date or null, created_at as an RFC3339 timestamp.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *DateOnly `json:"due_date"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTodoResponse(todo *domain.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		CreatedAt:   todo.CreatedAt,
	}
	if todo.DueDate != nil {
		due := DateOnly(*todo.DueDate)
		resp.DueDate = &due
	}
	return resp
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, NewTodoResponse(&todos[i]))
	}
	return out
}

// ErrorResponse is the body returned for request-level failures.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// TranslatedError is emitted by the outermost error boundary. The fields
// past Error are only populated in debug mode.
type TranslatedError struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	Type      string `json:"type,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}
