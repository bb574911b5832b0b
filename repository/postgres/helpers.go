package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/todo-api/repository"
)

// buildTodoUpdate renders a patch into a single UPDATE statement so partial
// updates stay atomic. Callers must not pass an empty patch.
func buildTodoUpdate(id int64, patch repository.TodoPatch) (string, []interface{}) {
	sets := make([]string, 0, 4)
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.SetDescription {
		add("description", patch.Description)
	}
	if patch.SetDueDate {
		add("due_date", nullDate(patch.DueDate))
	}
	if patch.IsCompleted != nil {
		add("is_completed", *patch.IsCompleted)
	}

	query := fmt.Sprintf(
		"UPDATE todos SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "),
		todoColumns,
	)
	return query, args
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
