// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/metrics"
	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/repository"
)

// Auth service errors.
var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password too short")
	ErrNameRequired = errors.New("name is required")
)

const minPasswordLength = 8

// dummyHash is verified against when login hits an unknown email, so the
// request costs one argon2 computation either way.
var dummyHash, _ = auth.HashPassword("focusdeck-timing-pad")

// AuthService registers users, authenticates logins and resolves the
// current user from a bearer token.
type AuthService struct {
	repo    *repository.Repository
	tokens  *auth.TokenIssuer
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, tokens *auth.TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new user, storing only the password hash.
// Returns ErrEmailTaken if the email is already registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a bearer token.
// Unknown email and wrong password collapse to the same ErrUnauthorized;
// an unknown email still pays for one hash verification so the two cases
// are not separable by timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = auth.VerifyPassword(password, dummyHash)
			s.metrics.IncLoginFailure()
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return "", ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return token, nil
}

// CurrentUser resolves a bearer token to its user.
// Invalid token and unknown subject both collapse to ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.IncTokenRejected()
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncTokenRejected()
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	return user, nil
}

// normalizeEmail lowercases and trims an email address. Lookup and
// uniqueness are both case-insensitive as a result.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail performs a minimal sanity check; real validation happens
// when mail is actually delivered.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
