package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/cache"
	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/repository"
)

const (
	// minAuthFailureDuration pads rejected requests so an expired token,
	// a tampered token, and a deleted user are indistinguishable by timing.
	minAuthFailureDuration = 100 * time.Millisecond
)

// UserStore resolves token subjects to users. Satisfied by
// *repository.Repository; lookup failures other than
// repository.ErrUserNotFound are treated as store outages.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Tokens     *auth.TokenIssuer
	Repository UserStore
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies
// it, resolves the owning user, and injects the user into the request
// context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			rejected := true

			// Pad failure paths to a consistent duration
			defer func() {
				if !rejected {
					return
				}
				elapsed := time.Since(startTime)
				if elapsed < minAuthFailureDuration {
					time.Sleep(minAuthFailureDuration - elapsed)
				}
			}()

			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			userID, err := cfg.Tokens.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(token)
			var user *model.User
			if cfg.Cache != nil {
				user, _ = cfg.Cache.GetUser(r.Context(), cacheKey)
			}
			cacheHit := user != nil

			if user == nil {
				user, err = cfg.Repository.GetUserByID(r.Context(), userID)
				if err != nil {
					if errors.Is(err, repository.ErrUserNotFound) {
						// Deleted account with a still-valid token.
						cfg.Logger.Warn("authentication failed",
							slog.String("reason", "unknown_user"),
							slog.String("ip", r.RemoteAddr),
							slog.String("request_id", GetRequestID(r.Context())),
						)
						writeAuthError(w)
						return
					}
					// Store outage is not an auth failure; surface it
					// as a server error.
					cfg.Logger.Error("user lookup failed",
						slog.String("error", err.Error()),
						slog.String("ip", r.RemoteAddr),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthUnavailable(w)
					return
				}
				if cfg.Cache != nil {
					_ = cfg.Cache.SetUser(r.Context(), cacheKey, user)
				}
			}

			rejected = false

			cfg.Logger.Info("authentication successful",
				slog.String("user_id", user.ID),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Bool("cache_hit", cacheHit),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Not authenticated","code":"UNAUTHORIZED"}`))
}

// writeAuthUnavailable writes a 500 when the user store cannot be reached.
func writeAuthUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"An internal error occurred","code":"INTERNAL_ERROR"}`))
}
