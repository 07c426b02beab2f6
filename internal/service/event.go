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

// Event service errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrTimesRequired = errors.New("start_time and end_time are required")
)

// EventService handles planner event business logic, owner-scoped like
// the other stores. start <= end is deliberately not enforced.
type EventService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewEventService creates a new EventService.
func NewEventService(repo *repository.Repository, recorder metrics.Recorder) *EventService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EventService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateEventInput defines input for creating a planner event.
type CreateEventInput struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	Color       *string
}

// CreateEvent creates a planner event owned by ownerID.
func (s *EventService) CreateEvent(ctx context.Context, ownerID string, input CreateEventInput) (*model.PlannerEvent, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, ErrTimesRequired
	}

	now := time.Now().UTC()
	event := &model.PlannerEvent{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Color:       input.Color,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.metrics.IncResourceCreated("event")

	return event, nil
}

// ListEvents returns the owner's events contained in [start, end],
// ordered by start time.
func (s *EventService) ListEvents(ctx context.Context, ownerID string, start, end time.Time) ([]*model.PlannerEvent, error) {
	events, err := s.repo.ListEvents(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent retrieves one of the owner's events by id.
func (s *EventService) GetEvent(ctx context.Context, ownerID, id string) (*model.PlannerEvent, error) {
	event, err := s.repo.GetEvent(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// UpdateEventInput defines input for updating a planner event.
// Only non-nil fields are applied.
type UpdateEventInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Color       *string
}

// UpdateEvent applies a partial update to one of the owner's events and
// refreshes updated_at.
func (s *EventService) UpdateEvent(ctx context.Context, ownerID, id string, input UpdateEventInput) (*model.PlannerEvent, error) {
	event, err := s.repo.GetEvent(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.StartTime != nil {
		event.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = *input.EndTime
	}
	if input.Color != nil {
		event.Color = input.Color
	}

	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	s.metrics.IncResourceUpdated("event")

	return event, nil
}

// DeleteEvent hard-deletes one of the owner's events.
func (s *EventService) DeleteEvent(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteEvent(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.metrics.IncResourceDeleted("event")

	return nil
}
