package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusdeck/focusdeck/internal/metrics"
	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/repository"
)

// Session service errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidDuration  = errors.New("duration must not be negative")
	ErrInvalidStatsSpan = errors.New("stats range end precedes start")
)

// SessionService handles pomodoro session business logic.
// The session type is stored as-is; values other than "focus" and
// "break" are accepted but ignored by stats.
type SessionService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo *repository.Repository, recorder metrics.Recorder) *SessionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SessionService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateSessionInput defines input for creating a pomodoro session.
type CreateSessionInput struct {
	Duration int // minutes
	Type     string
}

// CreateSession creates a session owned by ownerID.
// start_time defaults to the creation time.
func (s *SessionService) CreateSession(ctx context.Context, ownerID string, input CreateSessionInput) (*model.PomodoroSession, error) {
	if input.Duration < 0 {
		return nil, ErrInvalidDuration
	}

	now := time.Now().UTC()
	session := &model.PomodoroSession{
		ID:        ulid.Make().String(),
		StartTime: now,
		Duration:  input.Duration,
		Type:      input.Type,
		Completed: false,
		OwnerID:   ownerID,
		CreatedAt: now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncResourceCreated("session")

	return session, nil
}

// ListSessions returns all of an owner's sessions, most recent first.
func (s *SessionService) ListSessions(ctx context.Context, ownerID string) ([]*model.PomodoroSession, error) {
	sessions, err := s.repo.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSessionInput defines input for updating a session.
// Only non-nil fields are applied.
type UpdateSessionInput struct {
	EndTime   *time.Time
	Completed *bool
}

// UpdateSession applies a partial update to one of the owner's sessions.
func (s *SessionService) UpdateSession(ctx context.Context, ownerID, id string, input UpdateSessionInput) (*model.PomodoroSession, error) {
	session, err := s.repo.GetSession(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if input.EndTime != nil {
		session.EndTime = input.EndTime
	}
	if input.Completed != nil {
		session.Completed = *input.Completed
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	s.metrics.IncResourceUpdated("session")

	return session, nil
}

// Stats aggregates the owner's completed sessions whose start_time lies
// in [start, end], partitioned by type.
func (s *SessionService) Stats(ctx context.Context, ownerID string, start, end time.Time) (*model.SessionStats, error) {
	if end.Before(start) {
		return nil, ErrInvalidStatsSpan
	}

	stats, err := s.repo.SessionStats(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatsComputed()

	return stats, nil
}
