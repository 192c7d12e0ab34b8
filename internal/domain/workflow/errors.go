package workflow

import "errors"

var (
	// ErrNotFound is returned when the referenced work item does not exist
	ErrNotFound = errors.New("work item not found")

	// ErrInvalidTransition is returned when an action is not legal from the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a stored state is not part of the catalog
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidPayload is returned when a required payload field is missing or out of range
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrConcurrentModification is returned when a transition loses an optimistic-lock race
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrTransitionFailed is returned when storage fails after validation passed
	ErrTransitionFailed = errors.New("transition failed")
)
