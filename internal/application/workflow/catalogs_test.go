package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/kzhou/taskflow/internal/domain/entity"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

func activityPayloadFor(action domainwf.Action) domainwf.Payload {
	hours := 8.0
	switch action {
	case domainwf.ActionRequest, domainwf.ActionSubmit:
		return domainwf.Payload{RequesterID: 1, Notes: "n"}
	case domainwf.ActionAssign:
		return domainwf.Payload{AssignerID: 2, ExecutorID: 3, Notes: "n"}
	case domainwf.ActionComplete:
		return domainwf.Payload{Notes: "n", ActualHours: &hours}
	default:
		return domainwf.Payload{Notes: "n"}
	}
}

func TestActivityCatalog_HappyPath(t *testing.T) {
	catalog := NewActivityCatalog()

	if catalog.Initial() != domainwf.StateCreated {
		t.Fatalf("Initial() = %v, want %v", catalog.Initial(), domainwf.StateCreated)
	}

	steps := []struct {
		action domainwf.Action
		want   domainwf.State
	}{
		{domainwf.ActionRequest, domainwf.StateRequested},
		{domainwf.ActionAssign, domainwf.StateAssigned},
		{domainwf.ActionStart, domainwf.StateInProgress},
		{domainwf.ActionComplete, domainwf.StateCompleted},
		{domainwf.ActionApprove, domainwf.StateApproved},
	}

	machine, err := catalog.Machine(catalog.Initial())
	if err != nil {
		t.Fatalf("Machine() failed: %v", err)
	}
	for _, step := range steps {
		if _, err := machine.Fire(step.action, activityPayloadFor(step.action)); err != nil {
			t.Fatalf("Fire(%s) failed: %v", step.action, err)
		}
		if machine.State() != step.want {
			t.Fatalf("state after %s = %v, want %v", step.action, machine.State(), step.want)
		}
	}
}

func TestActivityCatalog_RejectPath(t *testing.T) {
	catalog := NewActivityCatalog()
	machine, _ := catalog.Machine(domainwf.StateCompleted)

	if _, err := machine.Fire(domainwf.ActionReject, domainwf.Payload{Notes: "not good enough"}); err != nil {
		t.Fatalf("Fire(REJECT) failed: %v", err)
	}
	if machine.State() != domainwf.StateRejected {
		t.Errorf("state = %v, want %v", machine.State(), domainwf.StateRejected)
	}
}

func TestActivityCatalog_CancelReachability(t *testing.T) {
	catalog := NewActivityCatalog()

	tests := []struct {
		from    domainwf.State
		allowed bool
	}{
		{domainwf.StateCreated, false},
		{domainwf.StateRequested, true},
		{domainwf.StateAssigned, true},
		{domainwf.StateInProgress, true},
		{domainwf.StateCompleted, false},
		{domainwf.StateApproved, false},
		{domainwf.StateRejected, false},
		{domainwf.StateCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			machine, err := catalog.Machine(tt.from)
			if err != nil {
				t.Fatalf("Machine(%s) failed: %v", tt.from, err)
			}
			if got := machine.CanFire(domainwf.ActionCancel); got != tt.allowed {
				t.Errorf("CanFire(CANCEL) from %s = %v, want %v", tt.from, got, tt.allowed)
			}
		})
	}
}

func TestActivityCatalog_TerminalClosure(t *testing.T) {
	catalog := NewActivityCatalog()
	allActions := []domainwf.Action{
		domainwf.ActionRequest, domainwf.ActionSubmit, domainwf.ActionAssign,
		domainwf.ActionStart, domainwf.ActionComplete, domainwf.ActionApprove,
		domainwf.ActionReject, domainwf.ActionCancel,
	}

	for _, state := range []domainwf.State{domainwf.StateApproved, domainwf.StateRejected, domainwf.StateCancelled} {
		machine, _ := catalog.Machine(state)
		for _, action := range allActions {
			if _, err := machine.Fire(action, activityPayloadFor(action)); !errors.Is(err, domainwf.ErrInvalidTransition) {
				t.Errorf("Fire(%s) from terminal %s error = %v, want ErrInvalidTransition", action, state, err)
			}
		}
	}
}

func TestActivityCatalog_Roles(t *testing.T) {
	catalog := NewActivityCatalog()

	tests := []struct {
		from   domainwf.State
		action domainwf.Action
		want   domainwf.Role
	}{
		{domainwf.StateCreated, domainwf.ActionRequest, domainwf.RoleRequester},
		{domainwf.StateRequested, domainwf.ActionAssign, domainwf.RoleAssigner},
		{domainwf.StateAssigned, domainwf.ActionStart, domainwf.RoleExecutor},
		{domainwf.StateInProgress, domainwf.ActionComplete, domainwf.RoleExecutor},
		{domainwf.StateCompleted, domainwf.ActionApprove, domainwf.RoleAssigner},
		{domainwf.StateCompleted, domainwf.ActionReject, domainwf.RoleAssigner},
	}
	for _, tt := range tests {
		role, ok := catalog.RequiredRole(tt.from, tt.action)
		if !ok || role != tt.want {
			t.Errorf("RequiredRole(%s, %s) = %v, %v, want %v", tt.from, tt.action, role, ok, tt.want)
		}
	}
}

func TestActivityCatalog_Mutations(t *testing.T) {
	catalog := NewActivityCatalog()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	hours := 12.5

	item := &entity.WorkItem{Kind: entity.KindActivity}

	machine, _ := catalog.Machine(domainwf.StateCreated)

	payloads := []struct {
		action  domainwf.Action
		payload domainwf.Payload
	}{
		{domainwf.ActionRequest, domainwf.Payload{RequesterID: 1, Notes: "r"}},
		{domainwf.ActionAssign, domainwf.Payload{AssignerID: 2, ExecutorID: 3, Notes: "a"}},
		{domainwf.ActionStart, domainwf.Payload{Notes: "s"}},
		{domainwf.ActionComplete, domainwf.Payload{Notes: "c", ActualHours: &hours}},
		{domainwf.ActionApprove, domainwf.Payload{Notes: "ok"}},
	}
	for _, step := range payloads {
		transition, err := machine.Fire(step.action, step.payload)
		if err != nil {
			t.Fatalf("Fire(%s) failed: %v", step.action, err)
		}
		transition.Apply(item, step.payload, now)
	}

	if item.RequesterID != 1 || item.AssignerID != 2 || item.ExecutorID != 3 {
		t.Errorf("actors = %d/%d/%d, want 1/2/3", item.RequesterID, item.AssignerID, item.ExecutorID)
	}
	if item.RequestDate == nil || item.AssignmentDate == nil || item.StartDate == nil ||
		item.CompletionDate == nil || item.ApprovalDate == nil {
		t.Error("every transition should stamp its date")
	}
	if item.ActualHours == nil || *item.ActualHours != 12.5 {
		t.Errorf("ActualHours = %v, want 12.5", item.ActualHours)
	}
	if item.RequestNotes != "r" || item.AssignmentNotes != "a" || item.ExecutionNotes != "s" ||
		item.CompletionNotes != "c" || item.ApprovalNotes != "ok" {
		t.Error("every transition should record its notes")
	}
}

func TestTaskRequestCatalog_HappyPath(t *testing.T) {
	catalog := NewTaskRequestCatalog()

	if catalog.Initial() != domainwf.StateDraft {
		t.Fatalf("Initial() = %v, want %v", catalog.Initial(), domainwf.StateDraft)
	}

	hours := 3.0
	steps := []struct {
		action  domainwf.Action
		payload domainwf.Payload
		want    domainwf.State
	}{
		{domainwf.ActionSubmit, domainwf.Payload{RequesterID: 1, Notes: "n"}, domainwf.StateSubmitted},
		{domainwf.ActionAssign, domainwf.Payload{AssignerID: 2, ExecutorID: 3, Notes: "n"}, domainwf.StateAssigned},
		{domainwf.ActionComplete, domainwf.Payload{Notes: "n", ActualHours: &hours}, domainwf.StateCompleted},
	}

	machine, _ := catalog.Machine(catalog.Initial())
	for _, step := range steps {
		if _, err := machine.Fire(step.action, step.payload); err != nil {
			t.Fatalf("Fire(%s) failed: %v", step.action, err)
		}
		if machine.State() != step.want {
			t.Fatalf("state after %s = %v, want %v", step.action, machine.State(), step.want)
		}
	}
}

func TestTaskRequestCatalog_CancelFromEveryNonTerminal(t *testing.T) {
	catalog := NewTaskRequestCatalog()

	for _, state := range []domainwf.State{domainwf.StateDraft, domainwf.StateSubmitted, domainwf.StateAssigned} {
		machine, _ := catalog.Machine(state)
		if !machine.CanFire(domainwf.ActionCancel) {
			t.Errorf("CanFire(CANCEL) from %s = false, want true", state)
		}
	}

	for _, state := range []domainwf.State{domainwf.StateCompleted, domainwf.StateCancelled} {
		machine, _ := catalog.Machine(state)
		if machine.CanFire(domainwf.ActionCancel) {
			t.Errorf("CanFire(CANCEL) from terminal %s = true, want false", state)
		}
	}
}

func TestTaskRequestCatalog_NoActivityOnlyActions(t *testing.T) {
	catalog := NewTaskRequestCatalog()

	machine, _ := catalog.Machine(domainwf.StateAssigned)
	if machine.CanFire(domainwf.ActionStart) {
		t.Error("task requests have no START action")
	}

	if !catalog.IsValid(domainwf.StateDraft) {
		t.Error("DRAFT should be a task request state")
	}
	if catalog.IsValid(domainwf.StateInProgress) {
		t.Error("IN_PROGRESS is not a task request state")
	}
}
