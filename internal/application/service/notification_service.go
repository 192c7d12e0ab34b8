package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kzhou/taskflow/internal/application/dispatcher"
	"github.com/kzhou/taskflow/internal/application/port"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/domain/event"
)

// NotificationService consumes workflow events and records pending
// notifications for later delivery. It sits on the consumer side of the
// dispatcher: its failures are logged here and never reach the
// orchestrator's caller.
type NotificationService interface {
	// Register subscribes the service's handlers on the dispatcher
	Register(d dispatcher.Dispatcher)

	// HandleStatusChanged records a notification for a status change event
	HandleStatusChanged(ctx context.Context, evt *event.Event) error

	// PendingNotifications returns undelivered notifications
	PendingNotifications(ctx context.Context, limit int) ([]*entity.Notification, error)

	// MarkDelivered marks a notification as sent
	MarkDelivered(ctx context.Context, id int64) error

	// MarkFailed marks a notification delivery as failed
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type notificationService struct {
	notifications port.NotificationRepository
	logger        Logger
}

// NewNotificationService creates a NotificationService
func NewNotificationService(notifications port.NotificationRepository, logger Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// Register subscribes the service's handlers on the dispatcher
func (s *notificationService) Register(d dispatcher.Dispatcher) {
	d.Subscribe(event.TypeStatusChanged, "notification-service", s.HandleStatusChanged)
}

// HandleStatusChanged records a notification for a status change event
func (s *notificationService) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	notification := &entity.Notification{
		WorkItemID:  evt.WorkItemID,
		RecipientID: evt.PayloadInt("actor_id"),
		EventType:   evt.Type.String(),
		Message: fmt.Sprintf("work item %d moved from %s to %s",
			evt.WorkItemID, evt.PayloadString("previous_status"), evt.PayloadString("new_status")),
		Status:    entity.NotificationStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Error("failed to record notification",
			"work_item_id", evt.WorkItemID, "event_id", evt.ID, "error", err)
		return err
	}

	s.logger.Info("notification recorded",
		"work_item_id", evt.WorkItemID, "notification_id", notification.ID)
	return nil
}

// PendingNotifications returns undelivered notifications
func (s *notificationService) PendingNotifications(ctx context.Context, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.notifications.GetPending(ctx, limit)
}

// MarkDelivered marks a notification as sent
func (s *notificationService) MarkDelivered(ctx context.Context, id int64) error {
	return s.notifications.MarkSent(ctx, id)
}

// MarkFailed marks a notification delivery as failed
func (s *notificationService) MarkFailed(ctx context.Context, id int64, reason string) error {
	return s.notifications.MarkFailed(ctx, id, reason)
}
