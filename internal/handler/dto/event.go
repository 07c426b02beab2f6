package dto

import (
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
)

// CreateEventRequest represents the request body for creating a planner event.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Color       *string    `json:"color,omitempty"`
}

// UpdateEventRequest represents the request body for updating a planner event.
// Absent fields are left untouched.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

// EventResponse represents a planner event in API responses.
type EventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Color       *string    `json:"color,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToEventResponse converts a PlannerEvent model to EventResponse DTO.
func ToEventResponse(event *model.PlannerEvent) *EventResponse {
	return &EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Color:       event.Color,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// ToEventListResponse converts a slice of PlannerEvent models to response DTOs.
func ToEventListResponse(events []*model.PlannerEvent) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = *ToEventResponse(event)
	}
	return responses
}
