package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	domainwf "github.com/kzhou/taskflow/internal/domain/workflow"
	"github.com/kzhou/taskflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// WorkItemRepository implements port.WorkItemRepository
type WorkItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWorkItemRepository creates a new work item repository
func NewWorkItemRepository(db *sql.DB, logger *zap.Logger) port.WorkItemRepository {
	return &WorkItemRepository{
		db:     db,
		logger: logger,
	}
}

const workItemColumns = `
	id, kind, status, version, title, description, category, priority, due_date,
	requester_id, assigner_id, executor_id,
	request_date, request_notes, assignment_date, assignment_notes,
	start_date, execution_notes, completion_date, completion_notes, actual_hours,
	approval_date, approval_notes, created_at, updated_at`

// Create creates a new work item
func (r *WorkItemRepository) Create(ctx context.Context, item *entity.WorkItem) error {
	query := `
		INSERT INTO work_items (
			kind, status, version, title, description, category, priority, due_date,
			requester_id, assigner_id, executor_id,
			request_date, request_notes, assignment_date, assignment_notes,
			start_date, execution_notes, completion_date, completion_notes, actual_hours,
			approval_date, approval_notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		item.Kind,
		item.Status,
		item.Version,
		item.Title,
		item.Description,
		item.Category,
		item.Priority,
		item.DueDate,
		nullableID(item.RequesterID),
		nullableID(item.AssignerID),
		nullableID(item.ExecutorID),
		item.RequestDate,
		item.RequestNotes,
		item.AssignmentDate,
		item.AssignmentNotes,
		item.StartDate,
		item.ExecutionNotes,
		item.CompletionDate,
		item.CompletionNotes,
		item.ActualHours,
		item.ApprovalDate,
		item.ApprovalNotes,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create work item", zap.Error(err))
		return fmt.Errorf("failed to create work item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves a work item by ID; returns nil when not found
func (r *WorkItemRepository) GetByID(ctx context.Context, id int64) (*entity.WorkItem, error) {
	query := `SELECT` + workItemColumns + ` FROM work_items WHERE id = ?`

	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id)
	item, err := scanWorkItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get work item", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get work item: %w", err)
	}
	return item, nil
}

// List retrieves work items of a kind, newest first
func (r *WorkItemRepository) List(ctx context.Context, kind string, limit, offset int) ([]*entity.WorkItem, error) {
	query := `SELECT` + workItemColumns + `
		FROM work_items
		WHERE kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list work items", zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	defer rows.Close()

	var items []*entity.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Update writes the item conditioned on the stored version. Rows-affected
// zero means another writer got there first.
func (r *WorkItemRepository) Update(ctx context.Context, item *entity.WorkItem, expectedVersion int64) error {
	query := `
		UPDATE work_items SET
			status = ?, version = ?, title = ?, description = ?, category = ?,
			priority = ?, due_date = ?,
			requester_id = ?, assigner_id = ?, executor_id = ?,
			request_date = ?, request_notes = ?,
			assignment_date = ?, assignment_notes = ?,
			start_date = ?, execution_notes = ?,
			completion_date = ?, completion_notes = ?, actual_hours = ?,
			approval_date = ?, approval_notes = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`

	newVersion := expectedVersion + 1
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		item.Status,
		newVersion,
		item.Title,
		item.Description,
		item.Category,
		item.Priority,
		item.DueDate,
		nullableID(item.RequesterID),
		nullableID(item.AssignerID),
		nullableID(item.ExecutorID),
		item.RequestDate,
		item.RequestNotes,
		item.AssignmentDate,
		item.AssignmentNotes,
		item.StartDate,
		item.ExecutionNotes,
		item.CompletionDate,
		item.CompletionNotes,
		item.ActualHours,
		item.ApprovalDate,
		item.ApprovalNotes,
		item.UpdatedAt,
		item.ID,
		expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to update work item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update work item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: work item %d version %d is stale",
			domainwf.ErrConcurrentModification, item.ID, expectedVersion)
	}

	item.Version = newVersion
	return nil
}

// scanWorkItem maps one row onto a WorkItem using the provided scan func
func scanWorkItem(scan func(dest ...interface{}) error) (*entity.WorkItem, error) {
	var item entity.WorkItem
	var requesterID, assignerID, executorID sql.NullInt64
	var actualHours sql.NullFloat64
	var dueDate, requestDate, assignmentDate, startDate, completionDate, approvalDate sql.NullTime
	var requestNotes, assignmentNotes, executionNotes, completionNotes, approvalNotes sql.NullString

	err := scan(
		&item.ID,
		&item.Kind,
		&item.Status,
		&item.Version,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Priority,
		&dueDate,
		&requesterID,
		&assignerID,
		&executorID,
		&requestDate,
		&requestNotes,
		&assignmentDate,
		&assignmentNotes,
		&startDate,
		&executionNotes,
		&completionDate,
		&completionNotes,
		&actualHours,
		&approvalDate,
		&approvalNotes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.RequesterID = requesterID.Int64
	item.AssignerID = assignerID.Int64
	item.ExecutorID = executorID.Int64
	item.RequestNotes = requestNotes.String
	item.AssignmentNotes = assignmentNotes.String
	item.ExecutionNotes = executionNotes.String
	item.CompletionNotes = completionNotes.String
	item.ApprovalNotes = approvalNotes.String

	if dueDate.Valid {
		item.DueDate = &dueDate.Time
	}
	if requestDate.Valid {
		item.RequestDate = &requestDate.Time
	}
	if assignmentDate.Valid {
		item.AssignmentDate = &assignmentDate.Time
	}
	if startDate.Valid {
		item.StartDate = &startDate.Time
	}
	if completionDate.Valid {
		item.CompletionDate = &completionDate.Time
	}
	if approvalDate.Valid {
		item.ApprovalDate = &approvalDate.Time
	}
	if actualHours.Valid {
		item.ActualHours = &actualHours.Float64
	}

	return &item, nil
}

// nullableID stores a zero actor id as NULL
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// Verify interface compliance
var _ port.WorkItemRepository = (*WorkItemRepository)(nil)
