package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			work_item_id, recipient_id, event_type, message, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		notification.WorkItemID,
		notification.RecipientID,
		notification.EventType,
		notification.Message,
		notification.Status,
		notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	notification.ID = id
	return nil
}

// GetByWorkItemID retrieves all notifications for a work item
func (r *NotificationRepository) GetByWorkItemID(ctx context.Context, workItemID int64) ([]*entity.Notification, error) {
	query := `
		SELECT id, work_item_id, recipient_id, event_type, message, status,
			error_msg, sent_at, created_at
		FROM notifications
		WHERE work_item_id = ?
		ORDER BY id ASC
	`
	return r.query(ctx, query, workItemID)
}

// GetPending retrieves undelivered notifications
func (r *NotificationRepository) GetPending(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, work_item_id, recipient_id, event_type, message, status,
			error_msg, sent_at, created_at
		FROM notifications
		WHERE status = ?
		ORDER BY id ASC
		LIMIT ?
	`
	return r.query(ctx, query, entity.NotificationStatusPending, limit)
}

// MarkSent marks a notification as delivered
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = ? WHERE id = ?`
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entity.NotificationStatusSent, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed marks a notification delivery as failed
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `UPDATE notifications SET status = ?, error_msg = ? WHERE id = ?`
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entity.NotificationStatusFailed, errorMsg, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}

func (r *NotificationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Notification, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query notifications", zap.Error(err))
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var errorMsg sql.NullString
		var sentAt sql.NullTime
		err := rows.Scan(
			&n.ID,
			&n.WorkItemID,
			&n.RecipientID,
			&n.EventType,
			&n.Message,
			&n.Status,
			&errorMsg,
			&sentAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.ErrorMsg = errorMsg.String
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
