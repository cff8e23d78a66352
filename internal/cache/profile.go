// Package cache keeps hot profile lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	usernamePrefix = "profile:username:"
	// DefaultTTL bounds how long a profile may be served after an out-of-band change
	DefaultTTL = 5 * time.Minute
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheMiss         = errors.New("cache miss")
)

// ProfileCache caches public profile lookups by username.
// A nil client turns every call into a no-op miss.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a new profile cache
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func usernameKey(username string) string {
	return usernamePrefix + username
}

// GetByUsername returns the cached profile or ErrCacheMiss
func (c *ProfileCache) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	if c.client == nil {
		return nil, ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, usernameKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return &profile, nil
}

// Set stores a profile under its username; profiles without one are skipped
func (c *ProfileCache) Set(ctx context.Context, profile *models.Profile) error {
	if c.client == nil || profile == nil || profile.Username == nil || *profile.Username == "" {
		return nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := c.client.Set(ctx, usernameKey(*profile.Username), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries of the given usernames
func (c *ProfileCache) Invalidate(ctx context.Context, usernames ...string) error {
	if c.client == nil {
		return nil
	}

	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u != "" {
			keys = append(keys, usernameKey(u))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached profiles: %w", err)
	}
	return nil
}

// Ping checks connectivity to Redis
func (c *ProfileCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}
	return c.client.Ping(ctx).Err()
}
