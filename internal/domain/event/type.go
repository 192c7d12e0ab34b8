package event

// Type identifies the type of domain event
type Type string

const (
	TypeWorkItemCreated Type = "workitem.created"
	TypeStatusChanged   Type = "workitem.status_changed"
	TypeWorkItemUpdated Type = "workitem.updated"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeWorkItemCreated, TypeStatusChanged, TypeWorkItemUpdated:
		return true
	default:
		return false
	}
}
