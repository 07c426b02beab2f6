package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/focusdeck/focusdeck/internal/model"
)

// ErrSessionNotFound is returned when no session matches (id, owner_id).
var ErrSessionNotFound = errors.New("session not found")

// CreateSession inserts a new pomodoro session into the database.
func (r *Repository) CreateSession(ctx context.Context, session *model.PomodoroSession) error {
	query := `
		INSERT INTO pomodoro_sessions (id, start_time, end_time, duration, type, completed, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.Type,
		session.Completed,
		session.OwnerID,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves a pomodoro session by id, scoped to its owner.
func (r *Repository) GetSession(ctx context.Context, id, ownerID string) (*model.PomodoroSession, error) {
	query := `
		SELECT id, start_time, end_time, duration, type, completed, owner_id, created_at
		FROM pomodoro_sessions
		WHERE id = $1 AND owner_id = $2
	`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListSessions retrieves all sessions for an owner, most recent first.
func (r *Repository) ListSessions(ctx context.Context, ownerID string) ([]*model.PomodoroSession, error) {
	query := `
		SELECT id, start_time, end_time, duration, type, completed, owner_id, created_at
		FROM pomodoro_sessions
		WHERE owner_id = $1
		ORDER BY start_time DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.PomodoroSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// UpdateSession persists a session's mutable fields, scoped to its owner.
func (r *Repository) UpdateSession(ctx context.Context, session *model.PomodoroSession) error {
	query := `
		UPDATE pomodoro_sessions
		SET start_time = $3, end_time = $4, duration = $5, type = $6, completed = $7
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		session.ID,
		session.OwnerID,
		session.StartTime,
		session.EndTime,
		session.Duration,
		session.Type,
		session.Completed,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// SessionStats sums completed sessions with start_time in [start, end],
// partitioned by type. Unknown types count toward neither bucket.
func (r *Repository) SessionStats(ctx context.Context, ownerID string, start, end time.Time) (*model.SessionStats, error) {
	query := `
		SELECT
			COALESCE(SUM(duration) FILTER (WHERE type = $4), 0),
			COALESCE(SUM(duration) FILTER (WHERE type = $5), 0),
			COUNT(*) FILTER (WHERE type = $4)
		FROM pomodoro_sessions
		WHERE owner_id = $1 AND completed = TRUE AND start_time >= $2 AND start_time <= $3
	`

	var stats model.SessionStats
	err := r.pool.QueryRow(ctx, query,
		ownerID,
		start,
		end,
		model.SessionTypeFocus,
		model.SessionTypeBreak,
	).Scan(
		&stats.TotalFocusMinutes,
		&stats.TotalBreakMinutes,
		&stats.CompletedSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute session stats: %w", err)
	}

	return &stats, nil
}

// scanSession scans a single row into a PomodoroSession model.
func scanSession(row pgx.Row) (*model.PomodoroSession, error) {
	var session model.PomodoroSession
	err := row.Scan(
		&session.ID,
		&session.StartTime,
		&session.EndTime,
		&session.Duration,
		&session.Type,
		&session.Completed,
		&session.OwnerID,
		&session.CreatedAt,
	)
	return &session, err
}
