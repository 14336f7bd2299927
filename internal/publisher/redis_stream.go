package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	gameUpdatesStream   = "games.updates.football_nfl"
	scrapeResultsStream = "scrape.results"
)

// RedisStreamPublisher publishes pipeline events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishGameUpdate publishes an upserted game to the stream
func (rsp *RedisStreamPublisher) PublishGameUpdate(ctx context.Context, gameData interface{}) error {
	return rsp.publish(ctx, gameUpdatesStream, gameData)
}

// PublishScrapeResult publishes a finished scrape summary to the stream
func (rsp *RedisStreamPublisher) PublishScrapeResult(ctx context.Context, result interface{}) error {
	return rsp.publish(ctx, scrapeResultsStream, result)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, streamName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
