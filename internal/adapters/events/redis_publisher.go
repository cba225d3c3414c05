package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
)

// RedisPublisher publishes settlement and stock events to Redis pub/sub
// channels. Channel names are <prefix>.<EventType>, so consumers subscribe to
// exactly the event types they care about (or <prefix>.* for everything).
type RedisPublisher struct {
	client        *redis.Client
	channelPrefix string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(redisURL, channelPrefix string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisPublisher{
		client:        client,
		channelPrefix: channelPrefix,
	}, nil
}

// Ensure RedisPublisher implements portssvc.EventPublisher
var _ portssvc.EventPublisher = (*RedisPublisher)(nil)

// Publish sends the event as JSON. Callers treat failures as non-fatal; the
// settlement that produced the event has already committed.
func (p *RedisPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	channel := p.channelPrefix + "." + string(event.Type)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
