// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing. The secret is loaded once at startup and is never
	// rotated while the process runs.
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for authenticated routes (per user)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPM     int  `env:"RATE_LIMIT_RPM" envDefault:"120"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Rate limiting for unauthenticated auth routes (per IP)
	AuthRateLimitRPM   int `env:"AUTH_RATE_LIMIT_RPM" envDefault:"30"`
	AuthRateLimitBurst int `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
