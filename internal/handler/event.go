package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/handler/dto"
	"github.com/focusdeck/focusdeck/internal/service"
)

// EventHandler handles HTTP requests for planner event operations.
type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /planner/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), owner.ID, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Color:       req.Color,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_created",
		"event_id", event.ID,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToEventResponse(event))
}

// List handles GET /planner/events.
// Both start_date and end_date query parameters are required.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())

	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	events, err := h.svc.ListEvents(r.Context(), owner.ID, start, end)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// Get handles GET /planner/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	event, err := h.svc.GetEvent(r.Context(), owner.ID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// Update handles PUT /planner/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), owner.ID, id, service.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Color:       req.Color,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_updated",
		"event_id", event.ID,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// Delete handles DELETE /planner/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustUserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteEvent(r.Context(), owner.ID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_deleted",
		"event_id", id,
		"owner_id", owner.ID,
	)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// handleServiceError maps event service errors to HTTP responses.
func (h *EventHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Event not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrTimesRequired):
		writeError(w, http.StatusBadRequest, "TIMES_REQUIRED", "start_time and end_time are required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// parseDateRange extracts required start_date/end_date query parameters.
// Writes a 400 response and returns ok=false when either is missing or
// malformed.
func parseDateRange(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	query := r.URL.Query()

	start, err := parseTimeParam(query.Get("start_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATE", "start_date is required and must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}

	end, err = parseTimeParam(query.Get("end_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DATE", "end_date is required and must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

// parseTimeParam accepts RFC 3339 timestamps and bare dates.
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
