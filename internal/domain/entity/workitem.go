package entity

import "time"

// WorkItem is the unit of work tracked through the approval workflow. Its
// workflow fields are mutated exclusively by the orchestrator; the core
// fields (title, description, category, priority, due date) change only
// through explicit edits outside the workflow.
//
// Actor ids are zero until the corresponding transition has occurred:
// RequesterID is set by the request/submit transition, AssignerID and
// ExecutorID by the first assign.
type WorkItem struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	Version     int64      `json:"version"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	RequesterID int64 `json:"requester_id,omitempty"`
	AssignerID  int64 `json:"assigner_id,omitempty"`
	ExecutorID  int64 `json:"executor_id,omitempty"`

	RequestDate     *time.Time `json:"request_date,omitempty"`
	RequestNotes    string     `json:"request_notes,omitempty"`
	AssignmentDate  *time.Time `json:"assignment_date,omitempty"`
	AssignmentNotes string     `json:"assignment_notes,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	ExecutionNotes  string     `json:"execution_notes,omitempty"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	ActualHours     *float64   `json:"actual_hours,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	ApprovalNotes   string     `json:"approval_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
