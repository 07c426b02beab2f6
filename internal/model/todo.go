// Package model defines domain entities for the application.
package model

import "time"

// TaskStatus represents the lifecycle state of a todo.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if the status is one of the known states.
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// Todo represents a task owned by a user.
// OwnerID is set from the authenticated user at creation and never changes.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OwnerID     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
