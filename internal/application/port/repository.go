package port

import (
	"context"

	"github.com/kzhou/taskflow/internal/domain/entity"
)

// WorkItemRepository defines persistence operations for WorkItem
type WorkItemRepository interface {
	Create(ctx context.Context, item *entity.WorkItem) error
	GetByID(ctx context.Context, id int64) (*entity.WorkItem, error)
	List(ctx context.Context, kind string, limit, offset int) ([]*entity.WorkItem, error)

	// Update writes the item conditioned on the stored version still being
	// expectedVersion; on success the item's version is bumped. A stale
	// version yields workflow.ErrConcurrentModification.
	Update(ctx context.Context, item *entity.WorkItem, expectedVersion int64) error
}

// HistoryRepository defines persistence operations for HistoryRecord.
// Append-only: no update or delete is exposed.
type HistoryRepository interface {
	Create(ctx context.Context, record *entity.HistoryRecord) error
	GetByWorkItemID(ctx context.Context, workItemID int64) ([]*entity.HistoryRecord, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByWorkItemID(ctx context.Context, workItemID int64) ([]*entity.Notification, error)
	GetPending(ctx context.Context, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
