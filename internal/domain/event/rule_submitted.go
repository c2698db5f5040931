package event

import (
	"encoding/json"
	"time"

	"rideadmin/pricing/internal/domain"
)

type SubmitMode string

const (
	SubmitModeCreate SubmitMode = "create"
	SubmitModeUpdate SubmitMode = "update"
)

type RuleSubmitted struct {
	Family      domain.RuleFamily `json:"family"`
	RuleID      string            `json:"rule_id"`
	Mode        SubmitMode        `json:"mode"`
	Payload     json.RawMessage   `json:"payload"`      // Body sent to the admin API
	SubmittedAt time.Time         `json:"submitted_at"` // Local clock
}

func (e *RuleSubmitted) EventType() string {
	return "RuleSubmitted"
}

func (e *RuleSubmitted) EventValue() ([]byte, error) {
	return DefaultEventValue(e)
}
