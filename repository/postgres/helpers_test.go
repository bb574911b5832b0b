package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo-api/repository"
)

func strPtr(s string) *string { return &s }

func TestBuildTodoUpdateSingleField(t *testing.T) {
	query, args := buildTodoUpdate(7, repository.TodoPatch{Title: strPtr("New")})

	assert.Equal(t,
		"UPDATE todos SET title = $2 WHERE id = $1 RETURNING "+todoColumns,
		query,
	)
	require.Len(t, args, 2)
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, "New", args[1])
}

func TestBuildTodoUpdateAllFields(t *testing.T) {
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	completed := true
	query, args := buildTodoUpdate(3, repository.TodoPatch{
		Title:          strPtr("t"),
		Description:    strPtr("d"),
		SetDescription: true,
		DueDate:        &due,
		SetDueDate:     true,
		IsCompleted:    &completed,
	})

	assert.Contains(t, query, "title = $2")
	assert.Contains(t, query, "description = $3")
	assert.Contains(t, query, "due_date = $4")
	assert.Contains(t, query, "is_completed = $5")
	require.Len(t, args, 5)
	assert.Equal(t, due, args[3])
	assert.Equal(t, true, args[4])
}

func TestBuildTodoUpdateNullClears(t *testing.T) {
	query, args := buildTodoUpdate(1, repository.TodoPatch{
		SetDescription: true,
		SetDueDate:     true,
	})

	assert.Contains(t, query, "description = $2")
	assert.Contains(t, query, "due_date = $3")
	require.Len(t, args, 3)
	assert.Equal(t, (*string)(nil), args[1])
	assert.Nil(t, args[2])
}

func TestNullDate(t *testing.T) {
	assert.Nil(t, nullDate(nil))

	now := time.Now()
	assert.Equal(t, now, nullDate(&now))
}
