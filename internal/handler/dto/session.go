package dto

import (
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
)

// CreateSessionRequest represents the request body for creating a
// pomodoro session. start_time is server-assigned.
type CreateSessionRequest struct {
	Duration int    `json:"duration"` // minutes
	Type     string `json:"type"`
}

// UpdateSessionRequest represents the request body for updating a session.
// Absent fields are left untouched.
type UpdateSessionRequest struct {
	EndTime   *time.Time `json:"end_time,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

// SessionResponse represents a pomodoro session in API responses.
type SessionResponse struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  int        `json:"duration"`
	Type      string     `json:"type"`
	Completed bool       `json:"completed"`
}

// StatsResponse represents the aggregate stats for completed sessions.
type StatsResponse struct {
	TotalFocusMinutes int `json:"total_focus_minutes"`
	TotalBreakMinutes int `json:"total_break_minutes"`
	CompletedSessions int `json:"completed_sessions"`
}

// ToSessionResponse converts a PomodoroSession model to SessionResponse DTO.
func ToSessionResponse(session *model.PomodoroSession) *SessionResponse {
	return &SessionResponse{
		ID:        session.ID,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Duration:  session.Duration,
		Type:      session.Type,
		Completed: session.Completed,
	}
}

// ToSessionListResponse converts a slice of PomodoroSession models to response DTOs.
func ToSessionListResponse(sessions []*model.PomodoroSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = *ToSessionResponse(session)
	}
	return responses
}

// ToStatsResponse converts SessionStats to StatsResponse DTO.
func ToStatsResponse(stats *model.SessionStats) *StatsResponse {
	return &StatsResponse{
		TotalFocusMinutes: stats.TotalFocusMinutes,
		TotalBreakMinutes: stats.TotalBreakMinutes,
		CompletedSessions: stats.CompletedSessions,
	}
}
