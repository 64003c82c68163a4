package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minutes/minutes/internal/model"
)

const (
	// sessionCachePrefix is the Redis key prefix for verified session tokens.
	sessionCachePrefix = "auth:session:"
	// sessionCacheTTL bounds how long a verified token skips signature checks.
	sessionCacheTTL = 5 * time.Minute
)

// cachedSession represents a verified session stored in Redis.
type cachedSession struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GetAuthContext retrieves a cached auth context by token fingerprint.
// Returns nil if not found (cache miss).
func (c *Cache) GetAuthContext(ctx context.Context, fingerprint string) (*model.AuthContext, error) {
	data, err := c.client.Get(ctx, c.key(sessionCachePrefix+fingerprint)).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil || cached.UserID == "" {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{UserID: cached.UserID, Email: cached.Email}, nil
}

// SetAuthContext caches a verified auth context. The entry never outlives the token.
func (c *Cache) SetAuthContext(ctx context.Context, fingerprint string, auth *model.AuthContext, tokenExpiry time.Time) error {
	ttl := sessionTTL(time.Now(), tokenExpiry)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(cachedSession{UserID: auth.UserID, Email: auth.Email})
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}

	return c.client.Set(ctx, c.key(sessionCachePrefix+fingerprint), data, ttl).Err()
}

// sessionTTL caps the cache TTL at the token's remaining lifetime.
func sessionTTL(now, tokenExpiry time.Time) time.Duration {
	if tokenExpiry.IsZero() {
		return sessionCacheTTL
	}
	remaining := tokenExpiry.Sub(now)
	if remaining < sessionCacheTTL {
		return remaining
	}
	return sessionCacheTTL
}
