package dto

import (
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTodoRequest represents the request body for updating a todo.
// Absent fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	return &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      string(todo.Status),
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of Todo models to response DTOs.
func ToTodoListResponse(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = *ToTodoResponse(todo)
	}
	return responses
}
