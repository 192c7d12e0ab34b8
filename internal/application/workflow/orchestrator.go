package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kzhou/taskflow/internal/application/dispatcher"
	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/domain/event"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

// Orchestrator is the sole mutation entry point of the workflow core.
// One orchestrator instance serves one catalog variant; the engine itself
// is variant-agnostic.
type Orchestrator interface {
	// Apply executes an action on a work item: it resolves the current
	// state, validates and fires the transition, mutates the item, appends
	// a history record and commits both atomically. Exactly one domain
	// event is emitted per successful transition.
	Apply(ctx context.Context, workItemID int64, action domainwf.Action, actorID int64, p domainwf.Payload) (*entity.WorkItem, error)

	// GetHistory returns the item's transition trail in insertion order
	GetHistory(ctx context.Context, workItemID int64) ([]*entity.HistoryRecord, error)

	// CurrentState returns the item's current workflow state
	CurrentState(ctx context.Context, workItemID int64) (domainwf.State, error)

	// Catalog returns the transition catalog this orchestrator serves
	Catalog() *domainwf.Catalog
}

type orchestrator struct {
	catalog    *domainwf.Catalog
	items      port.WorkItemRepository
	history    port.HistoryRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	now        func() time.Time
}

// Option configures the orchestrator
type Option func(*orchestrator)

// WithDispatcher sets the event dispatcher used to emit domain events
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(o *orchestrator) {
		o.dispatcher = d
	}
}

// WithClock overrides the time source, used in tests
func WithClock(now func() time.Time) Option {
	return func(o *orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a workflow orchestrator for one catalog variant
func NewOrchestrator(
	catalog *domainwf.Catalog,
	items port.WorkItemRepository,
	history port.HistoryRepository,
	txManager port.TransactionManager,
	opts ...Option,
) Orchestrator {
	o := &orchestrator{
		catalog:   catalog,
		items:     items,
		history:   history,
		txManager: txManager,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// load fetches a work item and scopes it to this orchestrator's variant.
// Both variants share one id space, so an item of the other kind is
// indistinguishable from a missing one here.
func (o *orchestrator) load(ctx context.Context, workItemID int64) (*entity.WorkItem, error) {
	item, err := o.items.GetByID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("load work item %d: %w", workItemID, err)
	}
	if item == nil || item.Kind != o.catalog.Name() {
		return nil, fmt.Errorf("%w: id %d", domainwf.ErrNotFound, workItemID)
	}
	return item, nil
}

// Apply executes an action on a work item
func (o *orchestrator) Apply(ctx context.Context, workItemID int64, action domainwf.Action, actorID int64, p domainwf.Payload) (*entity.WorkItem, error) {
	item, err := o.load(ctx, workItemID)
	if err != nil {
		return nil, err
	}

	machine, err := o.catalog.Machine(domainwf.State(item.Status))
	if err != nil {
		return nil, err
	}

	// Fire validates the transition and payload before anything is touched;
	// an invalid action leaves the item and its history untouched.
	transition, err := machine.Fire(action, p)
	if err != nil {
		return nil, err
	}

	now := o.now()

	// Mutate a working copy so a failed commit leaves the loaded item intact
	updated := *item
	if transition.Apply != nil {
		transition.Apply(&updated, p, now)
	}
	updated.Status = transition.To.String()
	updated.UpdatedAt = now

	record := &entity.HistoryRecord{
		WorkItemID:     workItemID,
		ActorID:        actorID,
		ActorName:      p.ActorName,
		PreviousStatus: transition.From.String(),
		NewStatus:      transition.To.String(),
		Action:         action.String(),
		Notes:          p.Notes,
		Timestamp:      now,
	}

	// Entity and history commit as one unit; the version condition
	// serializes concurrent transitions on the same item.
	err = o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := o.items.Update(txCtx, &updated, item.Version); err != nil {
			return err
		}
		return o.history.Create(txCtx, record)
	})
	if err != nil {
		if errors.Is(err, domainwf.ErrConcurrentModification) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domainwf.ErrTransitionFailed, err)
	}

	if o.dispatcher != nil {
		evt := event.New(event.TypeStatusChanged, workItemID, map[string]interface{}{
			"kind":            updated.Kind,
			"previous_status": transition.From.String(),
			"new_status":      transition.To.String(),
			"action":          action.String(),
			"actor_id":        actorID,
		})
		// The request context dies once the response is written; the
		// async handlers must outlive it.
		o.dispatcher.DispatchAsync(context.WithoutCancel(ctx), evt)
	}

	return &updated, nil
}

// GetHistory returns the item's transition trail in insertion order
func (o *orchestrator) GetHistory(ctx context.Context, workItemID int64) ([]*entity.HistoryRecord, error) {
	if _, err := o.load(ctx, workItemID); err != nil {
		return nil, err
	}
	return o.history.GetByWorkItemID(ctx, workItemID)
}

// CurrentState returns the item's current workflow state
func (o *orchestrator) CurrentState(ctx context.Context, workItemID int64) (domainwf.State, error) {
	item, err := o.load(ctx, workItemID)
	if err != nil {
		return "", err
	}

	state := domainwf.State(item.Status)
	if !o.catalog.IsValid(state) {
		return "", fmt.Errorf("%w: stored status %q", domainwf.ErrInvalidState, item.Status)
	}
	return state, nil
}

// Catalog returns the transition catalog this orchestrator serves
func (o *orchestrator) Catalog() *domainwf.Catalog {
	return o.catalog
}
