package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a history record
func (r *HistoryRepository) Create(ctx context.Context, record *entity.HistoryRecord) error {
	query := `
		INSERT INTO work_item_history (
			work_item_id, actor_id, actor_name, previous_status, new_status,
			action, notes, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		record.WorkItemID,
		record.ActorID,
		record.ActorName,
		record.PreviousStatus,
		record.NewStatus,
		record.Action,
		record.Notes,
		record.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history record", zap.Error(err))
		return fmt.Errorf("failed to create history record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// GetByWorkItemID retrieves the transition trail for a work item in
// insertion order
func (r *HistoryRepository) GetByWorkItemID(ctx context.Context, workItemID int64) ([]*entity.HistoryRecord, error) {
	query := `
		SELECT id, work_item_id, actor_id, actor_name, previous_status, new_status,
			action, notes, timestamp
		FROM work_item_history
		WHERE work_item_id = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, workItemID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.Int64("work_item_id", workItemID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.HistoryRecord
	for rows.Next() {
		var record entity.HistoryRecord
		err := rows.Scan(
			&record.ID,
			&record.WorkItemID,
			&record.ActorID,
			&record.ActorName,
			&record.PreviousStatus,
			&record.NewStatus,
			&record.Action,
			&record.Notes,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
