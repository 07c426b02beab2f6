package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/focusdeck/focusdeck/internal/model"
)

// ErrEventNotFound is returned when no event matches (id, owner_id).
var ErrEventNotFound = errors.New("event not found")

// CreateEvent inserts a new planner event into the database.
func (r *Repository) CreateEvent(ctx context.Context, event *model.PlannerEvent) error {
	query := `
		INSERT INTO planner_events (id, title, description, start_time, end_time, color, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Color,
		event.OwnerID,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetEvent retrieves a planner event by id, scoped to its owner.
func (r *Repository) GetEvent(ctx context.Context, id, ownerID string) (*model.PlannerEvent, error) {
	query := `
		SELECT id, title, description, start_time, end_time, color, owner_id, created_at, updated_at
		FROM planner_events
		WHERE id = $1 AND owner_id = $2
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// ListEvents retrieves an owner's events contained in [start, end],
// ordered by start time. The range filter matches events whose start
// is at or after start and whose end is at or before end.
func (r *Repository) ListEvents(ctx context.Context, ownerID string, start, end time.Time) ([]*model.PlannerEvent, error) {
	query := `
		SELECT id, title, description, start_time, end_time, color, owner_id, created_at, updated_at
		FROM planner_events
		WHERE owner_id = $1 AND start_time >= $2 AND end_time <= $3
		ORDER BY start_time ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*model.PlannerEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// UpdateEvent persists an event's mutable fields, scoped to its owner.
func (r *Repository) UpdateEvent(ctx context.Context, event *model.PlannerEvent) error {
	query := `
		UPDATE planner_events
		SET title = $3, description = $4, start_time = $5, end_time = $6, color = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		event.ID,
		event.OwnerID,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Color,
		event.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// DeleteEvent hard-deletes a planner event, scoped to its owner.
func (r *Repository) DeleteEvent(ctx context.Context, id, ownerID string) error {
	return r.deleteOwned(ctx, "planner_events", id, ownerID, ErrEventNotFound)
}

// scanEvent scans a single row into a PlannerEvent model.
func scanEvent(row pgx.Row) (*model.PlannerEvent, error) {
	var event model.PlannerEvent
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Color,
		&event.OwnerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return &event, err
}
