// Package model defines domain entities for the application.
package model

import "time"

// PlannerEvent represents a calendar entry owned by a user.
// start_time <= end_time is not enforced; the planner UI is free to
// store zero-length or inverted ranges.
type PlannerEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Color       *string    `json:"color,omitempty"`
	OwnerID     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
