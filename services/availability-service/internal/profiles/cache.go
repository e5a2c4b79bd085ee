package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
	"github.com/redis/go-redis/v9"
)

// CachedSource is a read-through Redis cache in front of another Source.
// Redis failures are logged and bypassed; they never fail a lookup on their own.
type CachedSource struct {
	next   Source
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewCachedSource(next Source, rdb *redis.Client, ttl time.Duration, prefix string, logger *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "availability:profile"
	}
	return &CachedSource{next: next, rdb: rdb, ttl: ttl, prefix: prefix, logger: logger}
}

func (c *CachedSource) key(expertID string) string {
	return c.prefix + ":" + expertID
}

func (c *CachedSource) GetAvailability(ctx context.Context, expertID string) (model.ProfileAvailability, error) {
	raw, err := c.rdb.Get(ctx, c.key(expertID)).Bytes()
	switch {
	case err == nil:
		var p model.ProfileAvailability
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			return p, nil
		}
		c.logger.Warn("discarding undecodable cached profile", "expert_id", expertID)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("profile cache read failed", "expert_id", expertID, "err", err)
	}

	p, err := c.next.GetAvailability(ctx, expertID)
	if err != nil {
		return model.ProfileAvailability{}, err
	}
	if body, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, c.key(expertID), body, c.ttl).Err(); err != nil {
			c.logger.Warn("profile cache write failed", "expert_id", expertID, "err", err)
		}
	}
	return p, nil
}

// Invalidate drops the cached profile so the next lookup reads through.
func (c *CachedSource) Invalidate(ctx context.Context, expertID string) error {
	return c.rdb.Del(ctx, c.key(expertID)).Err()
}
