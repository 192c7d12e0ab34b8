package entity

import "time"

// Notification is a pending delivery for a workflow event. Rows are written
// by the notification consumer; actual delivery (push, email) happens
// outside the workflow core and updates the status afterwards.
type Notification struct {
	ID          int64      `json:"id"`
	WorkItemID  int64      `json:"work_item_id"`
	RecipientID int64      `json:"recipient_id"`
	EventType   string     `json:"event_type"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	ErrorMsg    string     `json:"error_msg,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
