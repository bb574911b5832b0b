package transport

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/todo-api/domain"
	"github.com/fastygo/todo-api/repository"
)

// dateLayout is the wire format for due dates (calendar date, no time part).
const dateLayout = "2006-01-02"

// OptionalString distinguishes an absent JSON field from an explicit null
// and from a set value. The zero value means "absent".
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// OptionalBool carries the same three-state semantics for boolean fields.
type OptionalBool struct {
	Set   bool
	Value *bool
}

func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// OptionalDate parses a due date in YYYY-MM-DD form. Null and empty string
// both normalize to "no due date". Parsed dates are pinned to midnight UTC.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		o.Value = nil
		return nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return fmt.Errorf("due_date: expected a %s date: %w", dateLayout, err)
	}
	parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	o.Value = &parsed
	return nil
}

type CreateTodoRequest struct {
	Title       string         `json:"title"`
	Description OptionalString `json:"description"`
	DueDate     OptionalDate   `json:"due_date"`
}

// Validate checks the request shape and returns the entity to persist.
func (r CreateTodoRequest) Validate() (*domain.Todo, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Title cannot be empty")
	}
	return &domain.Todo{
		Title:       title,
		Description: r.Description.Value,
		DueDate:     r.DueDate.Value,
	}, nil
}

type UpdateTodoRequest struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	DueDate     OptionalDate   `json:"due_date"`
	IsCompleted OptionalBool   `json:"is_completed"`
}

// Patch converts the request into a repository patch. Absent fields stay
// untouched; null clears the nullable fields; a title that is present but
// empty after trimming is a validation failure.
func (r UpdateTodoRequest) Patch() (repository.TodoPatch, error) {
	var patch repository.TodoPatch

	if r.Title.Set {
		if r.Title.Value == nil || strings.TrimSpace(*r.Title.Value) == "" {
			return repository.TodoPatch{}, domain.NewError(domain.ErrCodeInvalid, "Title cannot be empty")
		}
		title := strings.TrimSpace(*r.Title.Value)
		patch.Title = &title
	}
	if r.Description.Set {
		patch.SetDescription = true
		patch.Description = r.Description.Value
	}
	if r.DueDate.Set {
		patch.SetDueDate = true
		patch.DueDate = r.DueDate.Value
	}
	if r.IsCompleted.Set {
		if r.IsCompleted.Value == nil {
			return repository.TodoPatch{}, domain.NewError(domain.ErrCodeInvalid, "is_completed cannot be null")
		}
		patch.IsCompleted = r.IsCompleted.Value
	}

	return patch, nil
}
