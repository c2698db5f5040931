package event

import "encoding/json"

type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

// DefaultEventValue provides a common implementation for EventValue
func DefaultEventValue(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func UnmarshalEvent[T Event](data []byte) (T, error) {
	var e T
	err := json.Unmarshal(data, &e)
	return e, err
}

// Types lists every event type published to the audit stream
var Types = []string{
	(&RuleSubmitted{}).EventType(),
	(&RuleStatusChanged{}).EventType(),
	(&RuleDeleted{}).EventType(),
}
