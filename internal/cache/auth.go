package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focusdeck/focusdeck/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for resolved-user cache.
	userCachePrefix = "auth:user:"
	// userCacheTTL is the time-to-live for cached resolved users.
	// Kept short so token expiry is observed promptly.
	userCacheTTL = 60 * time.Second
)

// cachedUser represents a resolved user stored in Redis.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GetUser retrieves a cached resolved user by cache key (a token hash).
// Returns nil on a cache miss.
func (c *Cache) GetUser(ctx context.Context, cacheKey string) (*model.User, error) {
	key := userCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:        cached.ID,
		Name:      cached.Name,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetUser caches a resolved user under a token hash.
// The password hash is deliberately never cached.
func (c *Cache) SetUser(ctx context.Context, cacheKey string, user *model.User) error {
	key := userCachePrefix + cacheKey

	cached := cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal cached user: %w", err)
	}

	return c.client.Set(ctx, key, data, userCacheTTL).Err()
}

// DeleteUser removes a cached resolved user.
func (c *Cache) DeleteUser(ctx context.Context, cacheKey string) error {
	key := userCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}
