package entity

import "time"

type TodoItem struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Completed   bool
	Priority    int
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// SetCompleted flips the completion flag and keeps CompletedAt in step with it.
func (t *TodoItem) SetCompleted(done bool, now time.Time) {
	switch {
	case done && !t.Completed:
		t.CompletedAt = &now
	case !done && t.Completed:
		t.CompletedAt = nil
	}
	t.Completed = done
}

// Overdue reports whether an open todo is past its due date.
func (t *TodoItem) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
