package todo

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/repository"
)

// UseCase layers the business rules on top of the persistence gateway:
// absence-to-error translation, the completion state machine, and a
// defensive title re-check. The cache is optional; cache failures degrade
// to repository reads and never fail a request.
type UseCase struct {
	todos  repository.TodoRepository
	cache  repository.TodoCache
	logger *zap.Logger
}

func New(todos repository.TodoRepository, cache repository.TodoCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		cache:  cache,
		logger: logger,
	}
}

func (uc *UseCase) List(ctx context.Context) ([]domain.Todo, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetList(ctx)
		if err != nil {
			uc.logger.Warn("todo list cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	todos, err := uc.todos.List(ctx)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	if uc.cache != nil {
		if err := uc.cache.SetList(ctx, todos); err != nil {
			uc.logger.Warn("todo list cache write failed", zap.Error(err))
		}
	}
	return todos, nil
}

func (uc *UseCase) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetItem(ctx, id)
		if err != nil {
			uc.logger.Warn("todo cache read failed", zap.Int64("id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}

	if uc.cache != nil {
		if err := uc.cache.SetItem(ctx, todo); err != nil {
			uc.logger.Warn("todo cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	return todo, nil
}

func (uc *UseCase) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	// Transport already validates the title; this re-check guards callers
	// that bypass the HTTP layer.
	if todo == nil || strings.TrimSpace(todo.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Title cannot be empty")
	}
	todo.Title = strings.TrimSpace(todo.Title)

	created, err := uc.todos.Create(ctx, todo)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, created.ID)
	uc.logger.Info("todo created", zap.Int64("id", created.ID))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, id int64, patch repository.TodoPatch) (*domain.Todo, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "Title cannot be empty")
		}
		patch.Title = &trimmed
	}

	// Existence check before the write so the caller gets a clean not-found
	// instead of a zero-row update.
	if _, err := uc.todos.GetByID(ctx, id); err != nil {
		return nil, translateNotFound(err, id)
	}

	updated, err := uc.todos.Update(ctx, id, patch)
	if err != nil {
		return nil, translateNotFound(err, id)
	}

	uc.invalidate(ctx, id)
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	deleted, err := uc.todos.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(id)
	}

	uc.invalidate(ctx, id)
	uc.logger.Info("todo deleted", zap.Int64("id", id))
	return nil
}

// DeleteAll clears the table unconditionally and succeeds even when it is
// already empty.
func (uc *UseCase) DeleteAll(ctx context.Context) error {
	count, err := uc.todos.DeleteAll(ctx)
	if err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.logger.Warn("todo cache invalidation failed", zap.Error(err))
		}
	}
	uc.logger.Info("all todos deleted", zap.Int64("count", count))
	return nil
}

func (uc *UseCase) Complete(ctx context.Context, id int64) (*domain.Todo, error) {
	return uc.setCompleted(ctx, id, true)
}

func (uc *UseCase) Incomplete(ctx context.Context, id int64) (*domain.Todo, error) {
	return uc.setCompleted(ctx, id, false)
}

// setCompleted enforces the completion state machine: each transition is
// only valid from the opposite state, a same-state attempt is a conflict.
func (uc *UseCase) setCompleted(ctx context.Context, id int64, completed bool) (*domain.Todo, error) {
	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	if todo.IsCompleted == completed {
		state := "incomplete"
		if completed {
			state = "completed"
		}
		return nil, domain.Errorf(domain.ErrCodeConflict, "Todo with id %d is already %s", id, state)
	}

	updated, err := uc.todos.SetCompleted(ctx, id, completed)
	if err != nil {
		return nil, translateNotFound(err, id)
	}

	uc.invalidate(ctx, id)
	return updated, nil
}

func (uc *UseCase) invalidate(ctx context.Context, id int64) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("todo cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
}

func notFound(id int64) error {
	return domain.Errorf(domain.ErrCodeNotFound, "Todo with id %d not found", id)
}

func translateNotFound(err error, id int64) error {
	if errors.Is(err, domain.ErrTodoNotFound) {
		return notFound(id)
	}
	return err
}
