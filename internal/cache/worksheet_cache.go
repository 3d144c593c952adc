package cache

import (
	"context"
	"encoding/json"
	"time"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// WorksheetCache keeps worksheet metadata in Redis.
type WorksheetCache interface {
	Get(ctx context.Context, id string) (*model.Worksheet, error)
	Set(ctx context.Context, w *model.Worksheet) error
	Invalidate(ctx context.Context, id string) error
}

type worksheetCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWorksheetCache(client *redis.Client, ttl time.Duration) WorksheetCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &worksheetCache{client: client, ttl: ttl}
}

func (c *worksheetCache) key(id string) string {
	return util.WorksheetCachePrefix + id
}

// Get returns nil, nil on a miss.
func (c *worksheetCache) Get(ctx context.Context, id string) (*model.Worksheet, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w model.Worksheet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *worksheetCache) Set(ctx context.Context, w *model.Worksheet) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(w.ID), data, c.ttl).Err()
}

func (c *worksheetCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
