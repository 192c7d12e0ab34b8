package workflow

// Action represents an operation that can cause a state transition
type Action string

const (
	ActionRequest  Action = "REQUEST"
	ActionSubmit   Action = "SUBMIT"
	ActionAssign   Action = "ASSIGN"
	ActionStart    Action = "START"
	ActionComplete Action = "COMPLETE"
	ActionApprove  Action = "APPROVE"
	ActionReject   Action = "REJECT"
	ActionCancel   Action = "CANCEL"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// Role identifies which workflow party may invoke an action.
// The orchestrator records the required role per transition but does not
// enforce it; authorization happens before Apply is called.
type Role string

const (
	RoleRequester Role = "REQUESTER"
	RoleAssigner  Role = "ASSIGNER"
	RoleExecutor  Role = "EXECUTOR"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
