package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/handler/dto"
	"github.com/focusdeck/focusdeck/internal/service"
)

// AuthHandler handles registration, login and current-user endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Token handles POST /auth/token.
// Credentials arrive form-encoded as username/password, where username
// carries the email.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		// Fall back to urlencoded bodies
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid form body")
			return
		}
	}

	email := r.FormValue("username")
	password := r.FormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "username and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), email, password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("login_succeeded")

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me handles GET /auth/me. The auth middleware has already resolved the
// user from the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleAuthError maps auth service errors to HTTP responses.
// Login failures share one generic message so callers cannot tell an
// unknown email from a wrong password.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Invalid email address")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 8 characters")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
