package cache

import (
	"context"
	"encoding/json"
	"time"

	"surveysync/internal/model"

	"github.com/redis/go-redis/v9"
)

const reportTTL = 24 * time.Hour

// ReportCache keeps the latest reconciliation report per container so
// the report endpoint can serve it without re-running the engine.
type ReportCache interface {
	Set(ctx context.Context, result *model.SyncResult) error
	Get(ctx context.Context, containerID string) (*model.SyncResult, error)
}

type reportCache struct {
	client *redis.Client
}

func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{client: client}
}

func (c *reportCache) Set(ctx context.Context, result *model.SyncResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "report:"+result.ContainerID, data, reportTTL).Err()
}

func (c *reportCache) Get(ctx context.Context, containerID string) (*model.SyncResult, error) {
	data, err := c.client.Get(ctx, "report:"+containerID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.SyncResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
