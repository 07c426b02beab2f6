// Package model defines domain entities for the application.
package model

import "time"

// User represents an account that owns todos, planner events and
// pomodoro sessions.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}
