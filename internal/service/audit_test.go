package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsumer struct {
	mutex    sync.Mutex
	messages []redis.XMessage
	acked    []string
}

func (c *fakeConsumer) Read(ctx context.Context, consumer string) (*redis.XMessage, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if len(c.messages) == 0 {
		time.Sleep(5 * time.Millisecond)
		return nil, nil
	}
	msg := c.messages[0]
	c.messages = c.messages[1:]
	return &msg, nil
}

func (c *fakeConsumer) Ack(ctx context.Context, msgID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.acked = append(c.acked, msgID)
	return nil
}

func (c *fakeConsumer) AutoClaim(ctx context.Context, consumer string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (c *fakeConsumer) Acked() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.acked...)
}

func TestDecodeAuditMessage(t *testing.T) {
	record, err := decodeAuditMessage(redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"event_type": "RuleDeleted",
			"event_data": `{"family": "cab", "rule_id": "r1", "soft": true}`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "1-0", record.MessageID)

	deleted, ok := record.Event.(*event.RuleDeleted)
	require.True(t, ok)
	assert.Equal(t, domain.RuleFamilyCab, deleted.Family)
	assert.True(t, deleted.Soft)

	_, err = decodeAuditMessage(redis.XMessage{ID: "2-0", Values: map[string]interface{}{"event_type": "Unknown", "event_data": "{}"}})
	assert.Error(t, err)

	_, err = decodeAuditMessage(redis.XMessage{ID: "3-0", Values: map[string]interface{}{"event_type": "RuleDeleted"}})
	assert.Error(t, err)
}

func TestTailAudit(t *testing.T) {
	consumer := &fakeConsumer{messages: []redis.XMessage{
		{ID: "1-0", Values: map[string]interface{}{"event_type": "RuleStatusChanged", "event_data": `{"rule_id": "r1", "active": false}`}},
		{ID: "2-0", Values: map[string]interface{}{"event_type": "Bogus", "event_data": "{}"}},
		{ID: "3-0", Values: map[string]interface{}{"event_type": "RuleSubmitted", "event_data": `{"rule_id": "r2", "mode": "create"}`}},
	}}
	s := NewService(newFakeAdminClient(), nil, nil, consumer, nil, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mutex   sync.Mutex
		records []AuditRecord
	)
	err := s.TailAudit(ctx, 2, time.Hour, func(ctx context.Context, record AuditRecord) error {
		mutex.Lock()
		defer mutex.Unlock()
		records = append(records, record)
		if len(records) == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.ElementsMatch(t, []string{"1-0", "3-0"}, consumer.Acked(), "undecodable events stay pending")
}

func TestTailAudit_Disabled(t *testing.T) {
	s := NewService(newFakeAdminClient(), nil, nil, nil, nil, 10)
	err := s.TailAudit(context.Background(), 1, time.Minute, func(context.Context, AuditRecord) error { return nil })
	assert.ErrorIs(t, err, errAuditDisabled)
}
