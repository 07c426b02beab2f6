//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := testutil.TruncateAll(ctx, repo.Pool()); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return ctx, repo
}

func createOwner(t *testing.T, ctx context.Context, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueEmail("owner"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return user
}

// ============================================================================
// User Repository Integration Tests
// ============================================================================

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("create"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("Email mismatch: got %q, want %q", byID.Email, user.Email)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", byEmail.ID, user.ID)
	}
	if byEmail.PasswordHash != user.PasswordHash {
		t.Error("PasswordHash should round-trip for login verification")
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("dup")
	user1 := testutil.NewTestUser(t, email)
	user2 := testutil.NewTestUser(t, email)
	user2.ID = testutil.UniqueID("user")

	if err := repo.CreateUser(ctx, user1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, user2)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetUserByID(ctx, "nonexistent-id"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound by ID, got: %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound by email, got: %v", err)
	}
}

// ============================================================================
// Todo Repository Integration Tests
// ============================================================================

func TestIntegrationTodoRepository_CRUD(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	todo := testutil.NewTestTodo(t, owner.ID)
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	retrieved, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}
	if retrieved.Title != todo.Title {
		t.Errorf("Title mismatch: got %q, want %q", retrieved.Title, todo.Title)
	}
	if retrieved.Status != model.TaskStatusTodo {
		t.Errorf("Status mismatch: got %q, want %q", retrieved.Status, model.TaskStatusTodo)
	}

	retrieved.Status = model.TaskStatusCompleted
	retrieved.UpdatedAt = time.Now().UTC()
	if err := repo.UpdateTodo(ctx, retrieved); err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}

	updated, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetTodo after update failed: %v", err)
	}
	if updated.Status != model.TaskStatusCompleted {
		t.Errorf("Status not persisted: got %q", updated.Status)
	}

	if err := repo.DeleteTodo(ctx, todo.ID, owner.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if _, err := repo.GetTodo(ctx, todo.ID, owner.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound after delete, got: %v", err)
	}
}

func TestIntegrationTodoRepository_ListNewestFirst(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	older := testutil.NewTestTodo(t, owner.ID)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testutil.NewTestTodo(t, owner.ID)

	if err := repo.CreateTodo(ctx, older); err != nil {
		t.Fatalf("CreateTodo (older) failed: %v", err)
	}
	if err := repo.CreateTodo(ctx, newer); err != nil {
		t.Fatalf("CreateTodo (newer) failed: %v", err)
	}

	todos, err := repo.ListTodos(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].ID != newer.ID {
		t.Errorf("expected newest todo first, got %q", todos[0].ID)
	}
}

func TestIntegrationTodoRepository_OtherOwnerInvisible(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)
	stranger := createOwner(t, ctx, repo)

	todo := testutil.NewTestTodo(t, owner.ID)
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	// Another user's read, update and delete must all behave as not-found
	if _, err := repo.GetTodo(ctx, todo.ID, stranger.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound for stranger get, got: %v", err)
	}

	hijacked := *todo
	hijacked.OwnerID = stranger.ID
	hijacked.Title = "hijacked"
	if err := repo.UpdateTodo(ctx, &hijacked); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound for stranger update, got: %v", err)
	}

	if err := repo.DeleteTodo(ctx, todo.ID, stranger.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound for stranger delete, got: %v", err)
	}

	// The real owner still sees the untouched row
	kept, err := repo.GetTodo(ctx, todo.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner GetTodo failed: %v", err)
	}
	if kept.Title != todo.Title {
		t.Errorf("todo was modified by a stranger: %q", kept.Title)
	}

	strangers, err := repo.ListTodos(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(strangers) != 0 {
		t.Errorf("stranger should list 0 todos, got %d", len(strangers))
	}
}

// ============================================================================
// Event Repository Integration Tests
// ============================================================================

func TestIntegrationEventRepository_WindowContainment(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	inside := testutil.NewTestEvent(t, owner.ID, base.Add(time.Hour))
	startsBefore := testutil.NewTestEvent(t, owner.ID, base.Add(-time.Hour))
	endsAfter := testutil.NewTestEvent(t, owner.ID, base.Add(11*time.Hour))
	endsAfter.EndTime = base.Add(13 * time.Hour)

	for _, e := range []*model.PlannerEvent{inside, startsBefore, endsAfter} {
		if err := repo.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	// Window holds only events fully contained in it
	events, err := repo.ListEvents(ctx, owner.ID, base, base.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 contained event, got %d", len(events))
	}
	if events[0].ID != inside.ID {
		t.Errorf("expected event %q, got %q", inside.ID, events[0].ID)
	}
}

func TestIntegrationEventRepository_ListOrderedByStart(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	late := testutil.NewTestEvent(t, owner.ID, base.Add(3*time.Hour))
	early := testutil.NewTestEvent(t, owner.ID, base)

	if err := repo.CreateEvent(ctx, late); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := repo.CreateEvent(ctx, early); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	events, err := repo.ListEvents(ctx, owner.ID, base.Add(-time.Hour), base.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != early.ID {
		t.Errorf("expected earliest event first, got %q", events[0].ID)
	}
}

func TestIntegrationEventRepository_OtherOwnerInvisible(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)
	stranger := createOwner(t, ctx, repo)

	event := testutil.NewTestEvent(t, owner.ID, time.Now().UTC())
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if _, err := repo.GetEvent(ctx, event.ID, stranger.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound for stranger, got: %v", err)
	}
	if err := repo.DeleteEvent(ctx, event.ID, stranger.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound for stranger delete, got: %v", err)
	}
}

// ============================================================================
// Session Repository Integration Tests
// ============================================================================

func TestIntegrationSessionRepository_CreateUpdateList(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	older := testutil.NewTestSession(t, owner.ID)
	older.StartTime = time.Now().UTC().Add(-2 * time.Hour)
	newer := testutil.NewTestSession(t, owner.ID)

	if err := repo.CreateSession(ctx, older); err != nil {
		t.Fatalf("CreateSession (older) failed: %v", err)
	}
	if err := repo.CreateSession(ctx, newer); err != nil {
		t.Fatalf("CreateSession (newer) failed: %v", err)
	}

	end := newer.StartTime.Add(25 * time.Minute)
	newer.EndTime = &end
	newer.Completed = true
	if err := repo.UpdateSession(ctx, newer); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	sessions, err := repo.ListSessions(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != newer.ID {
		t.Errorf("expected most recent session first, got %q", sessions[0].ID)
	}
	if !sessions[0].Completed {
		t.Error("completion flag not persisted")
	}
	if sessions[0].EndTime == nil {
		t.Error("end time not persisted")
	}
}

func TestIntegrationSessionRepository_Stats(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)
	stranger := createOwner(t, ctx, repo)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mk := func(ownerID string, start time.Time, duration int, sessionType string, completed bool) {
		s := testutil.NewTestSession(t, ownerID)
		s.StartTime = start
		s.Duration = duration
		s.Type = sessionType
		s.Completed = completed
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	mk(owner.ID, base, 25, model.SessionTypeFocus, true)
	mk(owner.ID, base.Add(time.Hour), 25, model.SessionTypeFocus, true)
	mk(owner.ID, base.Add(2*time.Hour), 5, model.SessionTypeBreak, true)
	mk(owner.ID, base.Add(3*time.Hour), 25, model.SessionTypeFocus, false)      // incomplete
	mk(owner.ID, base.Add(-48*time.Hour), 25, model.SessionTypeFocus, true)     // outside window
	mk(stranger.ID, base.Add(time.Minute), 99, model.SessionTypeFocus, true)    // other owner

	stats, err := repo.SessionStats(ctx, owner.ID, base.Add(-time.Hour), base.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("SessionStats failed: %v", err)
	}

	if stats.TotalFocusMinutes != 50 {
		t.Errorf("TotalFocusMinutes = %d, want 50", stats.TotalFocusMinutes)
	}
	if stats.TotalBreakMinutes != 5 {
		t.Errorf("TotalBreakMinutes = %d, want 5", stats.TotalBreakMinutes)
	}
	// Only completed focus sessions count toward the session total
	if stats.CompletedSessions != 2 {
		t.Errorf("CompletedSessions = %d, want 2", stats.CompletedSessions)
	}
}

func TestIntegrationSessionRepository_StatsEmpty(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	stats, err := repo.SessionStats(ctx, owner.ID, time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("SessionStats failed: %v", err)
	}

	if stats.TotalFocusMinutes != 0 || stats.TotalBreakMinutes != 0 || stats.CompletedSessions != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}

// ============================================================================
// Cascade behavior
// ============================================================================

func TestIntegrationRepository_DeleteUserCascades(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := createOwner(t, ctx, repo)

	todo := testutil.NewTestTodo(t, owner.ID)
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := repo.GetTodo(ctx, todo.ID, owner.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("expected todo to cascade away with its owner, got: %v", err)
	}
}
