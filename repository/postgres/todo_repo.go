package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/repository"
)

const todoColumns = "id, title, description, due_date, is_completed, created_at"

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository returns a Postgres-backed implementation of TodoRepository.
func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	if todo == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO todos (title, description, due_date)
	VALUES ($1, $2, $3)
	RETURNING ` + todoColumns

	row := r.pool.QueryRow(ctx, query, todo.Title, todo.Description, nullDate(todo.DueDate))
	return scanTodo(row)
}

func (r *todoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

func (r *todoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *todoRepository) Update(ctx context.Context, id int64, patch repository.TodoPatch) (*domain.Todo, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	query, args := buildTodoUpdate(id, patch)
	return scanTodo(r.pool.QueryRow(ctx, query, args...))
}

func (r *todoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *todoRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *todoRepository) SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Todo, error) {
	const query = `
	UPDATE todos
	SET is_completed = $2
	WHERE id = $1
	RETURNING ` + todoColumns

	return scanTodo(r.pool.QueryRow(ctx, query, id, completed))
}

func scanTodo(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Todo, error) {
	var todo domain.Todo
	var (
		description *string
		due         *time.Time
	)

	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&due,
		&todo.IsCompleted,
		&todo.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, err
	}

	todo.Description = description
	todo.DueDate = due
	return &todo, nil
}
