package repository

import (
	"context"
	"time"

	"github.com/fastygo/todo-api/domain"
)

// TodoPatch carries a field-level partial update. Nil pointers leave a
// column untouched; the Set* flags make explicit clears expressible for
// the nullable columns.
type TodoPatch struct {
	Title          *string
	Description    *string
	SetDescription bool
	DueDate        *time.Time
	SetDueDate     bool
	IsCompleted    *bool
}

// Empty reports whether the patch touches no columns.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && !p.SetDescription && !p.SetDueDate && p.IsCompleted == nil
}

// TodoRepository is the persistence gateway for todos. Lookups and writes
// addressing a missing id surface domain.ErrTodoNotFound (Delete reports
// absence through its boolean instead).
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	GetByID(ctx context.Context, id int64) (*domain.Todo, error)
	List(ctx context.Context) ([]domain.Todo, error)
	Update(ctx context.Context, id int64, patch TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Todo, error)
}

// TodoCache is a read-aside cache over list and single-item lookups.
// Implementations report a miss as (nil, nil).
type TodoCache interface {
	GetList(ctx context.Context) ([]domain.Todo, error)
	SetList(ctx context.Context, todos []domain.Todo) error
	GetItem(ctx context.Context, id int64) (*domain.Todo, error)
	SetItem(ctx context.Context, todo *domain.Todo) error
	Invalidate(ctx context.Context, id int64) error
	InvalidateAll(ctx context.Context) error
}
