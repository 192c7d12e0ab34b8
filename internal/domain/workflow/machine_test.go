package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/kzhou/taskflow/internal/domain/entity"
)

func testCatalog() *Catalog {
	builder := NewCatalogBuilder(
		"TEST",
		StateCreated,
		[]State{StateCreated, StateRequested, StateAssigned, StateCancelled},
		[]State{StateCancelled},
	)

	builder.Configure(StateCreated).
		Permit(ActionRequest, StateRequested).
		By(RoleRequester).
		Require(FieldRequesterID, FieldNotes).
		Mutate(func(item *entity.WorkItem, p Payload, now time.Time) {
			item.RequesterID = p.RequesterID
			item.RequestNotes = p.Notes
		})

	builder.Configure(StateRequested).
		Permit(ActionAssign, StateAssigned).
		By(RoleAssigner).
		Require(FieldAssignerID, FieldExecutorID, FieldNotes).
		Permit(ActionCancel, StateCancelled).
		By(RoleRequester).
		Require(FieldNotes)

	return builder.Build()
}

func TestState_String(t *testing.T) {
	if got := StateInProgress.String(); got != "IN_PROGRESS" {
		t.Errorf("State.String() = %v, want %v", got, "IN_PROGRESS")
	}
}

func TestAction_String(t *testing.T) {
	if got := ActionComplete.String(); got != "COMPLETE" {
		t.Errorf("Action.String() = %v, want %v", got, "COMPLETE")
	}
}

func TestCatalog_Accessors(t *testing.T) {
	catalog := testCatalog()

	if catalog.Name() != "TEST" {
		t.Errorf("Name() = %v, want TEST", catalog.Name())
	}
	if catalog.Initial() != StateCreated {
		t.Errorf("Initial() = %v, want %v", catalog.Initial(), StateCreated)
	}

	tests := []struct {
		state    State
		valid    bool
		terminal bool
	}{
		{StateCreated, true, false},
		{StateRequested, true, false},
		{StateAssigned, true, false},
		{StateCancelled, true, true},
		{StateApproved, false, false},
		{State("BOGUS"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := catalog.IsValid(tt.state); got != tt.valid {
				t.Errorf("IsValid(%s) = %v, want %v", tt.state, got, tt.valid)
			}
			if got := catalog.IsTerminal(tt.state); got != tt.terminal {
				t.Errorf("IsTerminal(%s) = %v, want %v", tt.state, got, tt.terminal)
			}
		})
	}
}

func TestCatalog_RequiredRole(t *testing.T) {
	catalog := testCatalog()

	role, ok := catalog.RequiredRole(StateRequested, ActionAssign)
	if !ok || role != RoleAssigner {
		t.Errorf("RequiredRole() = %v, %v, want %v, true", role, ok, RoleAssigner)
	}

	if _, ok := catalog.RequiredRole(StateRequested, ActionComplete); ok {
		t.Error("RequiredRole() should report unknown transition")
	}
}

func TestCatalog_RequiredFields(t *testing.T) {
	catalog := testCatalog()

	fields, ok := catalog.RequiredFields(StateCreated, ActionRequest)
	if !ok {
		t.Fatal("RequiredFields() should find the transition")
	}
	if len(fields) != 2 {
		t.Errorf("RequiredFields() returned %d fields, want 2", len(fields))
	}
}

func TestNewCatalogBuilder_PanicsOnUndeclaredInitial(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewCatalogBuilder() should panic on undeclared initial state")
		}
	}()
	NewCatalogBuilder("TEST", StateApproved, []State{StateCreated}, nil)
}

func TestNewCatalogBuilder_PanicsOnUndeclaredTerminal(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewCatalogBuilder() should panic on undeclared terminal state")
		}
	}()
	NewCatalogBuilder("TEST", StateCreated, []State{StateCreated}, []State{StateCancelled})
}

func TestCatalogBuilder_ConfigurePanicsOnTerminalState(t *testing.T) {
	builder := NewCatalogBuilder("TEST", StateCreated,
		[]State{StateCreated, StateCancelled}, []State{StateCancelled})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on terminal state")
		}
	}()
	builder.Configure(StateCancelled)
}

func TestCatalogBuilder_PermitPanicsOnDuplicateAction(t *testing.T) {
	builder := NewCatalogBuilder("TEST", StateCreated,
		[]State{StateCreated, StateRequested}, nil)
	builder.Configure(StateCreated).Permit(ActionRequest, StateRequested)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on duplicate action")
		}
	}()
	builder.Configure(StateCreated).Permit(ActionRequest, StateRequested)
}

func TestCatalog_MachineRejectsUnknownState(t *testing.T) {
	catalog := testCatalog()

	if _, err := catalog.Machine(State("BOGUS")); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Machine() error = %v, want ErrInvalidState", err)
	}
}

func TestMachine_Fire(t *testing.T) {
	catalog := testCatalog()
	machine, err := catalog.Machine(StateCreated)
	if err != nil {
		t.Fatalf("Machine() failed: %v", err)
	}

	if !machine.CanFire(ActionRequest) {
		t.Error("CanFire() should return true for permitted action")
	}
	if machine.CanFire(ActionAssign) {
		t.Error("CanFire() should return false for unlisted action")
	}

	transition, err := machine.Fire(ActionRequest, Payload{RequesterID: 1, Notes: "x"})
	if err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if transition.From != StateCreated || transition.To != StateRequested {
		t.Errorf("Fire() transition = %v -> %v, want %v -> %v",
			transition.From, transition.To, StateCreated, StateRequested)
	}
	if transition.Role != RoleRequester {
		t.Errorf("Fire() role = %v, want %v", transition.Role, RoleRequester)
	}
	if machine.State() != StateRequested {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateRequested)
	}
}

func TestMachine_FireAppliesMutation(t *testing.T) {
	catalog := testCatalog()
	machine, _ := catalog.Machine(StateCreated)

	transition, err := machine.Fire(ActionRequest, Payload{RequesterID: 7, Notes: "please"})
	if err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}

	var item entity.WorkItem
	transition.Apply(&item, Payload{RequesterID: 7, Notes: "please"}, time.Now())

	if item.RequesterID != 7 {
		t.Errorf("RequesterID = %d, want 7", item.RequesterID)
	}
	if item.RequestNotes != "please" {
		t.Errorf("RequestNotes = %q, want %q", item.RequestNotes, "please")
	}
}

func TestMachine_FireRejectsUnlistedAction(t *testing.T) {
	catalog := testCatalog()
	machine, _ := catalog.Machine(StateCreated)

	_, err := machine.Fire(ActionAssign, Payload{AssignerID: 1, ExecutorID: 2, Notes: "x"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
	if machine.State() != StateCreated {
		t.Errorf("State after failed Fire() = %v, want %v", machine.State(), StateCreated)
	}
}

func TestMachine_TerminalStateAcceptsNothing(t *testing.T) {
	catalog := testCatalog()
	machine, err := catalog.Machine(StateCancelled)
	if err != nil {
		t.Fatalf("Machine() failed: %v", err)
	}

	for _, action := range []Action{ActionRequest, ActionAssign, ActionCancel} {
		if machine.CanFire(action) {
			t.Errorf("CanFire(%s) on terminal state should be false", action)
		}
		if _, err := machine.Fire(action, Payload{Notes: "x"}); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Fire(%s) error = %v, want ErrInvalidTransition", action, err)
		}
	}

	if got := machine.PermittedActions(); len(got) != 0 {
		t.Errorf("PermittedActions() on terminal state = %v, want empty", got)
	}
}

func TestMachine_FireValidatesPayload(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name    string
		payload Payload
	}{
		{"missing requester", Payload{Notes: "x"}},
		{"blank notes", Payload{RequesterID: 1, Notes: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, _ := catalog.Machine(StateCreated)
			_, err := machine.Fire(ActionRequest, tt.payload)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Fire() error = %v, want ErrInvalidPayload", err)
			}
			if machine.State() != StateCreated {
				t.Errorf("State after invalid payload = %v, want %v", machine.State(), StateCreated)
			}
		})
	}
}

func TestMachine_PermittedActions(t *testing.T) {
	catalog := testCatalog()
	machine, _ := catalog.Machine(StateRequested)

	got := machine.PermittedActions()
	want := []Action{ActionAssign, ActionCancel}
	if len(got) != len(want) {
		t.Fatalf("PermittedActions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedActions()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPayload_Validate(t *testing.T) {
	hours := 8.0
	negative := -1.0

	tests := []struct {
		name     string
		payload  Payload
		required []Field
		wantErr  bool
	}{
		{"nothing required", Payload{}, nil, false},
		{"all present", Payload{Notes: "x", RequesterID: 1, AssignerID: 2, ExecutorID: 3, ActualHours: &hours},
			[]Field{FieldNotes, FieldRequesterID, FieldAssignerID, FieldExecutorID, FieldActualHours}, false},
		{"zero hours is valid", Payload{ActualHours: new(float64)}, []Field{FieldActualHours}, false},
		{"missing notes", Payload{}, []Field{FieldNotes}, true},
		{"blank notes", Payload{Notes: " \t"}, []Field{FieldNotes}, true},
		{"missing assigner", Payload{Notes: "x"}, []Field{FieldAssignerID}, true},
		{"missing executor", Payload{Notes: "x"}, []Field{FieldExecutorID}, true},
		{"missing hours", Payload{}, []Field{FieldActualHours}, true},
		{"negative hours", Payload{ActualHours: &negative}, []Field{FieldActualHours}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate(tt.required)
			if tt.wantErr && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Validate() error = %v, want ErrInvalidPayload", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
