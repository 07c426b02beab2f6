// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
)

// RegisterRequest represents the request body for registering a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
// The password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents the response for a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
