package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rideadmin/pricing/internal/cascade"
	"rideadmin/pricing/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Draft is an in-progress rule form that can be resumed later
type Draft struct {
	ID        string            `json:"id"`
	Family    domain.RuleFamily `json:"family"`
	RuleID    string            `json:"rule_id,omitempty"` // Set when editing an existing rule
	Selection cascade.Selection `json:"selection"`
	Fields    map[string]string `json:"fields"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type DraftStore interface {
	Save(ctx context.Context, draft *Draft) error
	Load(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

type redisDraftStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisDraftStore(redisClient *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{
		redisClient: redisClient,
		keyPrefix:   "pricing:draft:",
		ttl:         ttl,
	}
}

func (s *redisDraftStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", draft.ID, err)
	}

	key := s.keyPrefix + draft.ID
	if err := s.redisClient.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (s *redisDraftStore) Load(ctx context.Context, id string) (*Draft, error) {
	key := s.keyPrefix + id
	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	var draft Draft
	if err := json.Unmarshal(val, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return &draft, nil
}

func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}
