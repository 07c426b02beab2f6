package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusdeck/focusdeck/internal/metrics"
	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/repository"
)

// Todo service errors.
var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
)

// TodoService handles todo business logic. All operations are scoped to
// the owning user; a todo owned by someone else behaves as missing.
type TodoService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo *repository.Repository, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateTodoInput defines input for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description *string
	Status      string
	DueDate     *time.Time
}

// CreateTodo creates a todo owned by ownerID. The id and timestamps are
// server-assigned; a client-supplied id is never honored.
func (s *TodoService) CreateTodo(ctx context.Context, ownerID string, input CreateTodoInput) (*model.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status := model.TaskStatusTodo
	if input.Status != "" {
		status = model.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
	}

	now := time.Now().UTC()
	todo := &model.Todo{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.metrics.IncResourceCreated("todo")

	return todo, nil
}

// ListTodos returns all of an owner's todos, newest first.
func (s *TodoService) ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	todos, err := s.repo.ListTodos(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo retrieves one of the owner's todos by id.
func (s *TodoService) GetTodo(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// UpdateTodoInput defines input for updating a todo.
// Only non-nil fields are applied.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
}

// UpdateTodo applies a partial update to one of the owner's todos and
// refreshes updated_at.
func (s *TodoService) UpdateTodo(ctx context.Context, ownerID, id string, input UpdateTodoInput) (*model.Todo, error) {
	todo, err := s.repo.GetTodo(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = input.Description
	}
	if input.Status != nil {
		status := model.TaskStatus(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		todo.Status = status
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	todo.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	s.metrics.IncResourceUpdated("todo")

	return todo, nil
}

// DeleteTodo hard-deletes one of the owner's todos.
func (s *TodoService) DeleteTodo(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteTodo(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	s.metrics.IncResourceDeleted("todo")

	return nil
}
