package workflow

import (
	"fmt"
	"time"

	"github.com/kzhou/taskflow/internal/domain/entity"
)

// ApplyFunc describes the field mutation a transition performs on a work
// item. State configurations stay pure decision logic; the orchestrator
// evaluates the mutation in one place after the transition is validated.
type ApplyFunc func(item *entity.WorkItem, p Payload, now time.Time)

// transition is one catalog entry: target state, required actor role,
// mandatory payload fields and the field mutation to apply
type transition struct {
	to       State
	role     Role
	requires []Field
	apply    ApplyFunc
}

// Catalog is the immutable transition table for one workflow variant.
// Two catalogs exist (Activity and TaskRequest); they share the engine
// but configure their own states, terminals and transitions.
type Catalog struct {
	name        string
	initial     State
	states      map[State]bool
	terminal    map[State]bool
	transitions map[State]map[Action]transition
}

// Name returns the catalog's variant name
func (c *Catalog) Name() string {
	return c.name
}

// Initial returns the state new work items are created in
func (c *Catalog) Initial() State {
	return c.initial
}

// IsValid returns true if the state belongs to this catalog
func (c *Catalog) IsValid(s State) bool {
	return c.states[s]
}

// IsTerminal returns true if the state permits no further transitions
func (c *Catalog) IsTerminal(s State) bool {
	return c.terminal[s]
}

// RequiredRole returns the actor role permitted to invoke the action from
// the given state. Used by the authorization layer; the orchestrator itself
// trusts the pre-authorized actor.
func (c *Catalog) RequiredRole(from State, action Action) (Role, bool) {
	t, ok := c.transitions[from][action]
	if !ok {
		return "", false
	}
	return t.role, true
}

// RequiredFields returns the payload fields mandatory for the action from
// the given state
func (c *Catalog) RequiredFields(from State, action Action) ([]Field, bool) {
	t, ok := c.transitions[from][action]
	if !ok {
		return nil, false
	}
	return append([]Field{}, t.requires...), true
}

// CatalogBuilder builds a configured transition catalog
type CatalogBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates the immutable catalog
	Build() *Catalog
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration interface {
	// Permit allows an action to transition to the target state
	Permit(action Action, toState State) TransitionConfiguration
}

// TransitionConfiguration refines the most recently permitted transition
type TransitionConfiguration interface {
	StateConfiguration

	// By records the actor role permitted to invoke the transition
	By(role Role) TransitionConfiguration

	// Require marks payload fields as mandatory for the transition
	Require(fields ...Field) TransitionConfiguration

	// Mutate sets the field mutation applied on success
	Mutate(fn ApplyFunc) TransitionConfiguration
}

type catalogBuilder struct {
	name     string
	initial  State
	states   map[State]bool
	terminal map[State]bool
	configs  map[State]*stateConfig
}

type stateConfig struct {
	builder     *catalogBuilder
	from        State
	transitions map[Action]transition
}

type transitionConfig struct {
	state  *stateConfig
	action Action
}

// NewCatalogBuilder creates a builder for a workflow variant. All states the
// catalog uses must be declared up front; configuring or targeting an
// undeclared state panics, as does configuring transitions out of a terminal
// state. Misconfiguration is a programming error, not a runtime condition.
func NewCatalogBuilder(name string, initial State, states []State, terminal []State) CatalogBuilder {
	b := &catalogBuilder{
		name:     name,
		initial:  initial,
		states:   make(map[State]bool, len(states)),
		terminal: make(map[State]bool, len(terminal)),
		configs:  make(map[State]*stateConfig),
	}
	for _, s := range states {
		b.states[s] = true
	}
	for _, s := range terminal {
		if !b.states[s] {
			panic(fmt.Sprintf("terminal state %s not declared in catalog %s", s, name))
		}
		b.terminal[s] = true
	}
	if !b.states[initial] {
		panic(fmt.Sprintf("initial state %s not declared in catalog %s", initial, name))
	}
	return b
}

// Configure returns a state configuration for the given state
func (b *catalogBuilder) Configure(state State) StateConfiguration {
	if !b.states[state] {
		panic(fmt.Sprintf("state %s not declared in catalog %s", state, b.name))
	}
	if b.terminal[state] {
		panic(fmt.Sprintf("terminal state %s cannot permit transitions", state))
	}

	config, exists := b.configs[state]
	if !exists {
		config = &stateConfig{
			builder:     b,
			from:        state,
			transitions: make(map[Action]transition),
		}
		b.configs[state] = config
	}

	return config
}

// Build creates the immutable catalog
func (b *catalogBuilder) Build() *Catalog {
	transitions := make(map[State]map[Action]transition, len(b.configs))
	for state, config := range b.configs {
		entries := make(map[Action]transition, len(config.transitions))
		for action, t := range config.transitions {
			entries[action] = transition{
				to:       t.to,
				role:     t.role,
				requires: append([]Field{}, t.requires...),
				apply:    t.apply,
			}
		}
		transitions[state] = entries
	}

	states := make(map[State]bool, len(b.states))
	for s := range b.states {
		states[s] = true
	}
	terminal := make(map[State]bool, len(b.terminal))
	for s := range b.terminal {
		terminal[s] = true
	}

	return &Catalog{
		name:        b.name,
		initial:     b.initial,
		states:      states,
		terminal:    terminal,
		transitions: transitions,
	}
}

// Permit allows an action to transition to the target state
func (c *stateConfig) Permit(action Action, toState State) TransitionConfiguration {
	if !c.builder.states[toState] {
		panic(fmt.Sprintf("target state %s not declared in catalog %s", toState, c.builder.name))
	}
	if _, exists := c.transitions[action]; exists {
		panic(fmt.Sprintf("action %s already permitted from state %s", action, c.from))
	}

	c.transitions[action] = transition{to: toState}

	return &transitionConfig{state: c, action: action}
}

// Permit starts configuring another transition out of the same state
func (t *transitionConfig) Permit(action Action, toState State) TransitionConfiguration {
	return t.state.Permit(action, toState)
}

// By records the actor role permitted to invoke the transition
func (t *transitionConfig) By(role Role) TransitionConfiguration {
	entry := t.state.transitions[t.action]
	entry.role = role
	t.state.transitions[t.action] = entry
	return t
}

// Require marks payload fields as mandatory for the transition
func (t *transitionConfig) Require(fields ...Field) TransitionConfiguration {
	entry := t.state.transitions[t.action]
	entry.requires = append(entry.requires, fields...)
	t.state.transitions[t.action] = entry
	return t
}

// Mutate sets the field mutation applied on success
func (t *transitionConfig) Mutate(fn ApplyFunc) TransitionConfiguration {
	entry := t.state.transitions[t.action]
	entry.apply = fn
	t.state.transitions[t.action] = entry
	return t
}
