package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/handler/dto"
	"github.com/focusdeck/focusdeck/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
// All routes run behind the auth middleware, so the owner is always
// taken from the request context, never from the payload.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	var req dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), owner.ID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(todo))
}

// List handles GET /todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	todos, err := h.svc.ListTodos(r.Context(), owner.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	todo, err := h.svc.GetTodo(r.Context(), owner.ID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Update handles PUT /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), owner.ID, id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_updated",
		"todo_id", todo.ID,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteTodo(r.Context(), owner.ID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_deleted",
		"todo_id", id,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
}

// handleServiceError maps todo service errors to HTTP responses.
// A todo owned by another user surfaces as 404, never 403.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be todo, in_progress or completed")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
