package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends catalog events to a capped Redis stream.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewPublisher(client *redis.Client, stream string, maxLen int64) *Publisher {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

// Publish adds {event, payload, at} to the stream, trimming it approximately
// to maxLen entries.
func (p *Publisher) Publish(ctx context.Context, event string, payload []byte) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event":   event,
			"payload": string(payload),
			"at":      time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
}
