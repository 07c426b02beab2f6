package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/focusdeck/focusdeck/internal/model"
)

// ErrTodoNotFound is returned when no todo matches (id, owner_id).
var ErrTodoNotFound = errors.New("todo not found")

// CreateTodo inserts a new todo into the database.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, status, due_date, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.DueDate,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodo retrieves a todo by id, scoped to its owner.
func (r *Repository) GetTodo(ctx context.Context, id, ownerID string) (*model.Todo, error) {
	query := `
		SELECT id, title, description, status, due_date, owner_id, created_at, updated_at
		FROM todos
		WHERE id = $1 AND owner_id = $2
	`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListTodos retrieves all todos for an owner, newest first.
func (r *Repository) ListTodos(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	query := `
		SELECT id, title, description, status, due_date, owner_id, created_at, updated_at
		FROM todos
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo persists a todo's mutable fields, scoped to its owner.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		UPDATE todos
		SET title = $3, description = $4, status = $5, due_date = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.DueDate,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// DeleteTodo hard-deletes a todo, scoped to its owner.
func (r *Repository) DeleteTodo(ctx context.Context, id, ownerID string) error {
	return r.deleteOwned(ctx, "todos", id, ownerID, ErrTodoNotFound)
}

// scanTodo scans a single row into a Todo model.
func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Status,
		&todo.DueDate,
		&todo.OwnerID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	return &todo, err
}
