package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideadmin/pricing/internal/config"

	"github.com/redis/go-redis/v9"
)

// Consumer reads audit events back from the stream as a member of the
// consumer group
type Consumer interface {
	Read(ctx context.Context, consumer string) (*redis.XMessage, error) // nil when the stream stayed idle
	Ack(ctx context.Context, msgID string) error
	AutoClaim(ctx context.Context, consumer string, minIdleTime time.Duration) ([]redis.XMessage, error)
}

type RedisConsumer struct {
	redisClient *redis.Client
	stream      string
	groupName   string
	block       time.Duration
}

func NewRedisConsumer(redisClient *redis.Client, cfg config.RedisConfig) *RedisConsumer {
	return &RedisConsumer{
		redisClient: redisClient,
		stream:      cfg.Stream,
		groupName:   cfg.ConsumerGroup,
		block:       5 * time.Second,
	}
}

func (c *RedisConsumer) Read(ctx context.Context, consumer string) (*redis.XMessage, error) {
	result, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.groupName,
		Consumer: consumer,
		Streams:  []string{c.stream, ">"},
		Count:    1,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from Redis stream %s: %w", c.stream, err)
	}

	if len(result) == 0 || len(result[0].Messages) == 0 {
		return nil, nil
	}
	return &result[0].Messages[0], nil
}

func (c *RedisConsumer) Ack(ctx context.Context, msgID string) error {
	if err := c.redisClient.XAck(ctx, c.stream, c.groupName, msgID).Err(); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msgID, err)
	}
	return nil
}

// AutoClaim takes over messages another consumer read but never acknowledged
func (c *RedisConsumer) AutoClaim(ctx context.Context, consumer string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	result, _, err := c.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.groupName,
		Consumer: consumer,
		MinIdle:  minIdleTime,
		Start:    "0-0",
		Count:    10,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to claim messages from Redis stream %s: %w", c.stream, err)
	}
	return result, nil
}
