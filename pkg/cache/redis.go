// Package cache provides a Redis cache-aside layer for session reads
// and computed stats reports. Cache misses and marshal failures are
// reported as errors; callers always fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"reading-system/internal/models"
)

const (
	sessionTTL = 24 * time.Hour
	statsTTL   = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *RedisCache) SetSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.ID, data, sessionTTL).Err()
}

func (c *RedisCache) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := c.client.Get(ctx, "session:"+id).Bytes()
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *RedisCache) InvalidateSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, "session:"+id).Err()
}

func (c *RedisCache) SetStats(ctx context.Context, userID string, report *models.StatsReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "stats:"+userID, data, statsTTL).Err()
}

func (c *RedisCache) GetStats(ctx context.Context, userID string) (*models.StatsReport, error) {
	data, err := c.client.Get(ctx, "stats:"+userID).Bytes()
	if err != nil {
		return nil, err
	}

	var report models.StatsReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// InvalidateStats drops a user's cached report. Called after any write
// that feeds the aggregator: new session, soft delete, quiz attempt.
func (c *RedisCache) InvalidateStats(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "stats:"+userID).Err()
}
