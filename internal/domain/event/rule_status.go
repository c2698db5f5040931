package event

import (
	"time"

	"rideadmin/pricing/internal/domain"
)

type RuleStatusChanged struct {
	Family    domain.RuleFamily `json:"family"`
	RuleID    string            `json:"rule_id"`
	Active    bool              `json:"active"`
	ChangedAt time.Time         `json:"changed_at"`
}

func (e *RuleStatusChanged) EventType() string {
	return "RuleStatusChanged"
}

func (e *RuleStatusChanged) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}

type RuleDeleted struct {
	Family    domain.RuleFamily `json:"family"`
	RuleID    string            `json:"rule_id"`
	Soft      bool              `json:"soft"` // Status toggled off rather than removed
	DeletedAt time.Time         `json:"deleted_at"`
}

func (e *RuleDeleted) EventType() string {
	return "RuleDeleted"
}

func (e *RuleDeleted) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
