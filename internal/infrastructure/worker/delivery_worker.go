package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kzhou/taskflow/internal/application/service"
	"github.com/kzhou/taskflow/internal/domain/entity"
)

// Deliverer pushes one notification to its recipient
type Deliverer interface {
	Deliver(ctx context.Context, n *entity.Notification) error
}

// DeliveryWorker drains pending notifications on an interval and hands them
// to a Deliverer. Real delivery channels (email, chat) plug in behind the
// Deliverer interface; the worker only tracks the outcome.
type DeliveryWorker struct {
	notifications service.NotificationService
	deliverer     Deliverer
	logger        *zap.Logger

	pollInterval time.Duration
	batchSize    int

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// WorkerOption configures the delivery worker
type WorkerOption func(*DeliveryWorker)

// WithPollInterval overrides the poll interval
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *DeliveryWorker) {
		w.pollInterval = d
	}
}

// WithBatchSize overrides how many notifications one poll drains
func WithBatchSize(n int) WorkerOption {
	return func(w *DeliveryWorker) {
		w.batchSize = n
	}
}

// NewDeliveryWorker creates a delivery worker
func NewDeliveryWorker(
	notifications service.NotificationService,
	deliverer Deliverer,
	logger *zap.Logger,
	opts ...WorkerOption,
) *DeliveryWorker {
	w := &DeliveryWorker{
		notifications: notifications,
		deliverer:     deliverer,
		logger:        logger,
		pollInterval:  30 * time.Second,
		batchSize:     50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the delivery loop
func (w *DeliveryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("delivery worker is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.isRunning = true

	w.logger.Info("DeliveryWorker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize))

	w.wg.Add(1)
	go w.deliverLoop(loopCtx)

	return nil
}

// Stop stops the delivery loop and waits for the in-flight poll
func (w *DeliveryWorker) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("DeliveryWorker stopped")
}

// Name returns the worker name for identification
func (w *DeliveryWorker) Name() string {
	return "DeliveryWorker"
}

func (w *DeliveryWorker) deliverLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Drain immediately on start
	w.deliverPending(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.deliverPending(ctx)
		}
	}
}

// deliverPending drains one batch of pending notifications
func (w *DeliveryWorker) deliverPending(ctx context.Context) {
	pending, err := w.notifications.PendingNotifications(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to load pending notifications", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	delivered := 0
	failed := 0
	for _, n := range pending {
		if ctx.Err() != nil {
			return
		}

		if err := w.deliverer.Deliver(ctx, n); err != nil {
			w.logger.Warn("Notification delivery failed",
				zap.Int64("notification_id", n.ID),
				zap.Int64("work_item_id", n.WorkItemID),
				zap.Error(err))
			if markErr := w.notifications.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				w.logger.Error("Failed to mark notification failed",
					zap.Int64("notification_id", n.ID), zap.Error(markErr))
			}
			failed++
			continue
		}

		if err := w.notifications.MarkDelivered(ctx, n.ID); err != nil {
			w.logger.Error("Failed to mark notification delivered",
				zap.Int64("notification_id", n.ID), zap.Error(err))
			continue
		}
		delivered++
	}

	w.logger.Info("Delivery batch completed",
		zap.Int("delivered", delivered),
		zap.Int("failed", failed))
}

// LogDeliverer writes notifications to the log. It stands in until a real
// delivery channel is configured.
type LogDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer creates a log-backed deliverer
func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver logs the notification
func (d *LogDeliverer) Deliver(ctx context.Context, n *entity.Notification) error {
	d.logger.Info("Delivering notification",
		zap.Int64("notification_id", n.ID),
		zap.Int64("work_item_id", n.WorkItemID),
		zap.Int64("recipient_id", n.RecipientID),
		zap.String("message", n.Message))
	return nil
}
