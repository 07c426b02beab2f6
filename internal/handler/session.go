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

// SessionHandler handles HTTP requests for pomodoro session operations.
type SessionHandler struct {
	svc    *service.SessionService
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /pomodoro/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session, err := h.svc.CreateSession(r.Context(), owner.ID, service.CreateSessionInput{
		Duration: req.Duration,
		Type:     req.Type,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("session_created",
		"session_id", session.ID,
		"owner_id", owner.ID,
		"type", session.Type,
	)

	writeJSON(w, http.StatusCreated, dto.ToSessionResponse(session))
}

// List handles GET /pomodoro/sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	sessions, err := h.svc.ListSessions(r.Context(), owner.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSessionListResponse(sessions))
}

// Update handles PUT /pomodoro/sessions/{id}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	session, err := h.svc.UpdateSession(r.Context(), owner.ID, id, service.UpdateSessionInput{
		EndTime:   req.EndTime,
		Completed: req.Completed,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("session_updated",
		"session_id", session.ID,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToSessionResponse(session))
}

// Stats handles GET /pomodoro/stats.
// Both start_date and end_date query parameters are required.
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(r.Context(), owner.ID, start, end)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStatsResponse(stats))
}

// handleServiceError maps session service errors to HTTP responses.
func (h *SessionHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, service.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "INVALID_DURATION", "Duration must not be negative")
	case errors.Is(err, service.ErrInvalidStatsSpan):
		writeError(w, http.StatusBadRequest, "INVALID_RANGE", "end_date must not precede start_date")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
