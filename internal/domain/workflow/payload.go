package workflow

import (
	"fmt"
	"strings"
)

// Field identifies a payload field that a transition may require
type Field string

const (
	FieldNotes       Field = "notes"
	FieldRequesterID Field = "requester_id"
	FieldAssignerID  Field = "assigner_id"
	FieldExecutorID  Field = "executor_id"
	FieldActualHours Field = "actual_hours"
)

// Payload carries the caller-supplied data for a transition.
// Which fields are mandatory depends on the catalog entry for the
// requested action; unused fields are ignored.
type Payload struct {
	Notes       string
	ActorName   string // denormalized into the history record, display only
	RequesterID int64
	AssignerID  int64
	ExecutorID  int64
	ActualHours *float64
}

// Validate checks that every required field is present and in range.
// Blank notes, non-positive actor ids and negative hours all count as invalid.
func (p Payload) Validate(required []Field) error {
	for _, f := range required {
		switch f {
		case FieldNotes:
			if strings.TrimSpace(p.Notes) == "" {
				return fmt.Errorf("%w: notes must not be blank", ErrInvalidPayload)
			}
		case FieldRequesterID:
			if p.RequesterID <= 0 {
				return fmt.Errorf("%w: requester_id is required", ErrInvalidPayload)
			}
		case FieldAssignerID:
			if p.AssignerID <= 0 {
				return fmt.Errorf("%w: assigner_id is required", ErrInvalidPayload)
			}
		case FieldExecutorID:
			if p.ExecutorID <= 0 {
				return fmt.Errorf("%w: executor_id is required", ErrInvalidPayload)
			}
		case FieldActualHours:
			if p.ActualHours == nil {
				return fmt.Errorf("%w: actual_hours is required", ErrInvalidPayload)
			}
			if *p.ActualHours < 0 {
				return fmt.Errorf("%w: actual_hours must not be negative", ErrInvalidPayload)
			}
		default:
			return fmt.Errorf("%w: unknown required field %q", ErrInvalidPayload, f)
		}
	}
	return nil
}
