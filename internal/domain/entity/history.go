package entity

import "time"

// HistoryRecord is one immutable entry in a work item's audit trail.
// Records are created once per transition, insertion ordered, and never
// mutated or deleted by the workflow core.
type HistoryRecord struct {
	ID             int64     `json:"id"`
	WorkItemID     int64     `json:"work_item_id"`
	ActorID        int64     `json:"actor_id"`
	ActorName      string    `json:"actor_name"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Action         string    `json:"action"`
	Notes          string    `json:"notes"`
	Timestamp      time.Time `json:"timestamp"`
}
