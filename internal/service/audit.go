package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rideadmin/pricing/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var errAuditDisabled = errors.New("audit stream is not configured")

// AuditRecord is one event read back from the audit stream
type AuditRecord struct {
	MessageID string      `json:"message_id"`
	Type      string      `json:"type"`
	Event     event.Event `json:"event"`
}

// AuditHandler receives every record. A record is acknowledged only when the
// handler returns nil, so a failed record is picked up again by the claimer.
type AuditHandler func(ctx context.Context, record AuditRecord) error

// TailAudit reads the audit stream with numWorkers consumers until ctx is
// cancelled. Messages left pending by a crashed reader are claimed once they
// have been idle for minIdleTime.
func (s *Service) TailAudit(ctx context.Context, numWorkers int, minIdleTime time.Duration, handle AuditHandler) error {
	if s.consumer == nil {
		return errAuditDisabled
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("audit-claimer-%d", time.Now().UnixNano())
				claimed, err := s.consumer.AutoClaim(ctx, consumer, minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim audit events: %v", err)
					continue
				}
				if len(claimed) > 0 {
					log.Infof("🔄 Auto-claimed %d audit events", len(claimed))
				}
				for _, msg := range claimed {
					if err := s.processAuditMessage(ctx, msg, handle); err != nil {
						log.Errorf("❌ Failed to process auto-claimed event %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("audit-worker-%d", workerID)
			log.Debugf("Starting audit worker %d as consumer %s", workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Debugf("Audit worker %d stopping", workerID)
					return
				default:
					msg, err := s.consumer.Read(ctx, consumer)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Errorf("❌ Failed to read audit event: %v", err)
						continue
					}
					if msg == nil {
						continue
					}
					if err := s.processAuditMessage(ctx, *msg, handle); err != nil {
						log.Errorf("❌ Failed to process audit event %s: %v", msg.ID, err)
					}
				}
			}
		}(i + 1)
	}

	wg.Wait()
	return nil
}

func (s *Service) processAuditMessage(ctx context.Context, msg redis.XMessage, handle AuditHandler) error {
	record, err := decodeAuditMessage(msg)
	if err != nil {
		return err
	}
	if err := handle(ctx, record); err != nil {
		return err
	}
	return s.consumer.Ack(ctx, msg.ID)
}

func decodeAuditMessage(msg redis.XMessage) (AuditRecord, error) {
	eventType, ok := msg.Values["event_type"].(string)
	if !ok {
		return AuditRecord{}, fmt.Errorf("invalid event type in message %s", msg.ID)
	}
	eventData, ok := msg.Values["event_data"].(string)
	if !ok {
		return AuditRecord{}, fmt.Errorf("invalid event data in message %s", msg.ID)
	}

	var (
		e   event.Event
		err error
	)
	switch eventType {
	case (&event.RuleSubmitted{}).EventType():
		e, err = event.UnmarshalEvent[*event.RuleSubmitted]([]byte(eventData))
	case (&event.RuleStatusChanged{}).EventType():
		e, err = event.UnmarshalEvent[*event.RuleStatusChanged]([]byte(eventData))
	case (&event.RuleDeleted{}).EventType():
		e, err = event.UnmarshalEvent[*event.RuleDeleted]([]byte(eventData))
	default:
		return AuditRecord{}, fmt.Errorf("unknown event type: %s", eventType)
	}
	if err != nil {
		return AuditRecord{}, fmt.Errorf("failed to unmarshal %s data: %w", eventType, err)
	}

	return AuditRecord{MessageID: msg.ID, Type: eventType, Event: e}, nil
}
