package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a transient domain event describing what just happened to a
// work item. The workflow core creates one per successful transition and
// hands it to the dispatcher; it is not persisted by the core itself.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	WorkItemID    int64                  `json:"work_item_id"`
	Payload       map[string]interface{} `json:"payload"`
	OccurredOn    time.Time              `json:"occurred_on"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a domain event with a generated ID and timestamp
func New(eventType Type, workItemID int64, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		WorkItemID:    workItemID,
		Payload:       payload,
		OccurredOn:    time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewWithCorrelation creates an event linked to an existing correlation chain
func NewWithCorrelation(eventType Type, workItemID int64, payload map[string]interface{}, correlationID string) *Event {
	e := New(eventType, workItemID, payload)
	e.CorrelationID = correlationID
	return e
}

// WithPayload returns a copy of the event with an added payload entry
func (e *Event) WithPayload(key string, value interface{}) *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	clone := *e
	clone.Payload = payload
	return &clone
}

// PayloadString retrieves a string value from the payload
func (e *Event) PayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// PayloadInt retrieves an int64 value from the payload
func (e *Event) PayloadInt(key string) int64 {
	switch v := e.Payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
