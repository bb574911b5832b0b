package domain

import "time"

// Todo is the single persisted task record. Description and DueDate are
// nullable; DueDate carries calendar-date semantics (no time component).
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
}
