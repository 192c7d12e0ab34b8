package workflow

// State represents a workflow state in a work item's lifecycle.
// The full set spans both catalog variants; each Catalog declares
// which subset it actually uses.
type State string

const (
	StateCreated    State = "CREATED"
	StateDraft      State = "DRAFT"
	StateSubmitted  State = "SUBMITTED"
	StateRequested  State = "REQUESTED"
	StateAssigned   State = "ASSIGNED"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
	StateApproved   State = "APPROVED"
	StateRejected   State = "REJECTED"
	StateCancelled  State = "CANCELLED"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
