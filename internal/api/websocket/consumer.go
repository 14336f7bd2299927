package websocket

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	gameUpdatesStream = "games.updates.football_nfl"

	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// StreamConsumer forwards game updates from the Redis stream to the hub.
type StreamConsumer struct {
	redis  *redis.Client
	hub    *Hub
	lastID string
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, h *Hub) *StreamConsumer {
	return &StreamConsumer{
		redis:  redisClient,
		hub:    h,
		lastID: "$", // only new messages
	}
}

// Run consumes the game updates stream until the context is cancelled
func (sc *StreamConsumer) Run(ctx context.Context) {
	log.Printf("[ws] Consuming stream: %s", gameUpdatesStream)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			streams, err := sc.redis.XRead(ctx, &redis.XReadArgs{
				Streams: []string{gameUpdatesStream, sc.lastID},
				Count:   batchSize,
				Block:   blockDuration,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No new messages - continue
					continue
				}
				if ctx.Err() != nil {
					return
				}
				log.Printf("[ws] ⚠️  Stream read error: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					sc.lastID = message.ID
					if data, ok := message.Values["data"].(string); ok {
						sc.hub.Broadcast([]byte(data))
					}
				}
			}
		}
	}
}
