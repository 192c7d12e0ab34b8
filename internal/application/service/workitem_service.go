package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kzhou/taskflow/internal/application/dispatcher"
	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/domain/event"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateInput carries the core fields for a new work item
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     *time.Time
}

// EditInput carries core-field edits; nil fields are left unchanged
type EditInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	DueDate     *time.Time
}

// WorkItemService manages work items outside the workflow: creation in the
// catalog's initial state and edits of the core fields. Every workflow
// transition goes through the orchestrator instead.
type WorkItemService interface {
	Create(ctx context.Context, in CreateInput) (*entity.WorkItem, error)
	Get(ctx context.Context, id int64) (*entity.WorkItem, error)
	List(ctx context.Context, limit, offset int) ([]*entity.WorkItem, error)
	EditDetails(ctx context.Context, id int64, in EditInput) (*entity.WorkItem, error)
}

type workItemService struct {
	catalog    *domainwf.Catalog
	items      port.WorkItemRepository
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewWorkItemService creates a WorkItemService bound to one catalog variant
func NewWorkItemService(
	catalog *domainwf.Catalog,
	items port.WorkItemRepository,
	d dispatcher.Dispatcher,
	logger Logger,
) WorkItemService {
	return &workItemService{
		catalog:    catalog,
		items:      items,
		dispatcher: d,
		logger:     logger,
	}
}

// Create stores a new work item in the catalog's initial state. The history
// trail records transitions only, so creation itself appends no record.
func (s *workItemService) Create(ctx context.Context, in CreateInput) (*entity.WorkItem, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domainwf.ErrInvalidPayload)
	}

	now := time.Now()
	item := &entity.WorkItem{
		Kind:        s.catalog.Name(),
		Status:      s.catalog.Initial().String(),
		Version:     1,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Priority == "" {
		item.Priority = entity.PriorityMedium
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create work item", "kind", item.Kind, "error", err)
		return nil, fmt.Errorf("create work item: %w", err)
	}

	if s.dispatcher != nil {
		evt := event.New(event.TypeWorkItemCreated, item.ID, map[string]interface{}{
			"kind":   item.Kind,
			"status": item.Status,
			"title":  item.Title,
		})
		s.dispatcher.DispatchAsync(context.WithoutCancel(ctx), evt)
	}

	s.logger.Info("work item created", "id", item.ID, "kind", item.Kind, "status", item.Status)
	return item, nil
}

// Get retrieves a work item by id
func (s *workItemService) Get(ctx context.Context, id int64) (*entity.WorkItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get work item %d: %w", id, err)
	}
	// The variants share one id space; an item of the other kind is
	// out of scope for this service.
	if item == nil || item.Kind != s.catalog.Name() {
		return nil, fmt.Errorf("%w: id %d", domainwf.ErrNotFound, id)
	}
	return item, nil
}

// List returns work items of this service's kind, newest first
func (s *workItemService) List(ctx context.Context, limit, offset int) ([]*entity.WorkItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.items.List(ctx, s.catalog.Name(), limit, offset)
}

// EditDetails updates core fields without touching the workflow state. The
// write is version-conditioned like a transition, so an edit racing a
// transition loses cleanly instead of clobbering it.
func (s *workItemService) EditDetails(ctx context.Context, id int64, in EditInput) (*entity.WorkItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *item
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title must not be blank", domainwf.ErrInvalidPayload)
		}
		updated.Title = *in.Title
	}
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.Category != nil {
		updated.Category = *in.Category
	}
	if in.Priority != nil {
		updated.Priority = *in.Priority
	}
	if in.DueDate != nil {
		updated.DueDate = in.DueDate
	}
	updated.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, &updated, item.Version); err != nil {
		return nil, fmt.Errorf("edit work item %d: %w", id, err)
	}

	if s.dispatcher != nil {
		evt := event.New(event.TypeWorkItemUpdated, id, map[string]interface{}{
			"kind": updated.Kind,
		})
		s.dispatcher.DispatchAsync(context.WithoutCancel(ctx), evt)
	}

	return &updated, nil
}
