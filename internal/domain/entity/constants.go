package entity

// Kind constants for WorkItem
const (
	KindActivity    = "ACTIVITY"
	KindTaskRequest = "TASK_REQUEST"
)

// Priority constants for WorkItem
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)
