package queue

import (
	"context"
	"fmt"
	"strings"

	"rideadmin/pricing/internal/config"
	"rideadmin/pricing/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Publisher appends audit events to a Redis stream
type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error) // Returns message ID
	EnsureStream(ctx context.Context) error
}

type RedisPublisher struct {
	redisClient *redis.Client
	stream      string
	groupName   string
}

func NewRedisPublisher(ctx context.Context, redisClient *redis.Client, cfg config.RedisConfig) (*RedisPublisher, error) {
	p := &RedisPublisher{
		redisClient: redisClient,
		stream:      cfg.Stream,
		groupName:   cfg.ConsumerGroup,
	}

	// The consumer group must exist before any downstream reader starts
	if err := p.EnsureStream(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure stream exists: %w", err)
	}

	return p, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	eventType := e.EventType()

	value, err := e.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	messageID, err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_type": eventType,
			"event_data": string(value),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", p.stream, err)
	}

	log.Debugf("Published %s to stream %s with message ID: %s", eventType, p.stream, messageID)
	return messageID, nil
}

// EnsureStream creates the stream and its consumer group
func (p *RedisPublisher) EnsureStream(ctx context.Context) error {
	err := p.redisClient.XGroupCreateMkStream(ctx, p.stream, p.groupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		log.Infof("Group %s already exists for stream %s", p.groupName, p.stream)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create consumer group %s: %w", p.groupName, err)
	}

	log.Infof("✅ Stream %s and consumer group %s ready", p.stream, p.groupName)
	return nil
}
