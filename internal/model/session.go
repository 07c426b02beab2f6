// Package model defines domain entities for the application.
package model

import "time"

// Session type values recognized by the stats aggregation.
// The field itself is a free-form string; unknown types are stored
// but ignored by stats.
const (
	SessionTypeFocus = "focus"
	SessionTypeBreak = "break"
)

// PomodoroSession represents a single focus or break timer run.
type PomodoroSession struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  int        `json:"duration"` // minutes
	Type      string     `json:"type"`
	Completed bool       `json:"completed"`
	OwnerID   string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionStats aggregates completed sessions over a time range.
type SessionStats struct {
	TotalFocusMinutes int `json:"total_focus_minutes"`
	TotalBreakMinutes int `json:"total_break_minutes"`
	CompletedSessions int `json:"completed_sessions"`
}
