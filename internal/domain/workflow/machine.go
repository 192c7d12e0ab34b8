package workflow

import (
	"fmt"
	"sort"
)

// Machine is the behavior bound to a work item's current state: it knows
// which actions the state accepts and rejects everything else with
// ErrInvalidTransition. Successful firing advances the machine to the new
// state and hands the validated transition back for the orchestrator to
// apply.
type Machine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the action is permitted in the current state
	CanFire(action Action) bool

	// Fire validates the action and its payload, advances the machine and
	// returns the transition to apply
	Fire(action Action, p Payload) (Transition, error)

	// PermittedActions returns all actions accepted by the current state
	PermittedActions() []Action
}

// Transition is the outcome of a successful Fire: where the machine came
// from, where it went, and the field mutation to apply to the work item
type Transition struct {
	From   State
	To     State
	Action Action
	Role   Role
	Apply  ApplyFunc
}

type stateMachine struct {
	catalog *Catalog
	current State
}

// Machine creates a state machine positioned at the given current state
func (c *Catalog) Machine(current State) (Machine, error) {
	if !c.IsValid(current) {
		return nil, fmt.Errorf("%w: %s is not a %s state", ErrInvalidState, current, c.name)
	}
	return &stateMachine{catalog: c, current: current}, nil
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.current
}

// CanFire returns true if the action is permitted in the current state
func (m *stateMachine) CanFire(action Action) bool {
	_, ok := m.catalog.transitions[m.current][action]
	return ok
}

// Fire validates the action and its payload, advances the machine and
// returns the transition to apply
func (m *stateMachine) Fire(action Action, p Payload) (Transition, error) {
	t, ok := m.catalog.transitions[m.current][action]
	if !ok {
		if m.catalog.IsTerminal(m.current) {
			return Transition{}, fmt.Errorf("%w: %s is a terminal state, cannot %s",
				ErrInvalidTransition, m.current, action)
		}
		return Transition{}, fmt.Errorf("%w: cannot %s from state %s",
			ErrInvalidTransition, action, m.current)
	}

	if err := p.Validate(t.requires); err != nil {
		return Transition{}, fmt.Errorf("%s from %s: %w", action, m.current, err)
	}

	result := Transition{
		From:   m.current,
		To:     t.to,
		Action: action,
		Role:   t.role,
		Apply:  t.apply,
	}
	m.current = t.to

	return result, nil
}

// PermittedActions returns all actions accepted by the current state
func (m *stateMachine) PermittedActions() []Action {
	entries := m.catalog.transitions[m.current]
	actions := make([]Action, 0, len(entries))
	for action := range entries {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
