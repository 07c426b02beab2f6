// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/focusdeck/focusdeck/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 740740

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table. Child tables cascade from
// users, but listing them keeps the intent explicit.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx,
		"TRUNCATE pomodoro_sessions, planner_events, todos, users CASCADE")
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           UniqueID("user"),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$dGVzdHNhbHQ$dGVzdGhhc2g",
		CreatedAt:    now,
	}
}

// NewTestTodo creates a test todo owned by the given user.
func NewTestTodo(t testing.TB, ownerID string) *model.Todo {
	t.Helper()
	now := time.Now().UTC()
	return &model.Todo{
		ID:        UniqueID("todo"),
		Title:     "Test Todo",
		Status:    model.TaskStatusTodo,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestEvent creates a test planner event owned by the given user.
func NewTestEvent(t testing.TB, ownerID string, start time.Time) *model.PlannerEvent {
	t.Helper()
	now := time.Now().UTC()
	return &model.PlannerEvent{
		ID:        UniqueID("event"),
		Title:     "Test Event",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestSession creates a test pomodoro session owned by the given user.
func NewTestSession(t testing.TB, ownerID string) *model.PomodoroSession {
	t.Helper()
	now := time.Now().UTC()
	return &model.PomodoroSession{
		ID:        UniqueID("session"),
		StartTime: now,
		Duration:  25,
		Type:      model.SessionTypeFocus,
		OwnerID:   ownerID,
		CreatedAt: now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
