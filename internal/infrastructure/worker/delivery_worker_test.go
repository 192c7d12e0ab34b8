package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kzhou/taskflow/internal/application/dispatcher"
	"github.com/kzhou/taskflow/internal/domain/entity"
	"github.com/kzhou/taskflow/internal/domain/event"
)

type stubNotificationService struct {
	mu      sync.Mutex
	pending []*entity.Notification

	delivered []int64
	failed    []int64
}

func (s *stubNotificationService) Register(d dispatcher.Dispatcher) {}

func (s *stubNotificationService) HandleStatusChanged(ctx context.Context, evt *event.Event) error {
	return nil
}

func (s *stubNotificationService) PendingNotifications(ctx context.Context, limit int) ([]*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Notification
	for _, n := range s.pending {
		if n.Status == entity.NotificationStatusPending && len(result) < limit {
			result = append(result, n)
		}
	}
	return result, nil
}

func (s *stubNotificationService) MarkDelivered(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, id)
	s.setStatus(id, entity.NotificationStatusSent)
	return nil
}

func (s *stubNotificationService) MarkFailed(ctx context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
	s.setStatus(id, entity.NotificationStatusFailed)
	return nil
}

func (s *stubNotificationService) setStatus(id int64, status string) {
	for _, n := range s.pending {
		if n.ID == id {
			n.Status = status
		}
	}
}

func (s *stubNotificationService) counts() (delivered, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered), len(s.failed)
}

type stubDeliverer struct {
	failIDs map[int64]bool
}

func (d *stubDeliverer) Deliver(ctx context.Context, n *entity.Notification) error {
	if d.failIDs[n.ID] {
		return errors.New("recipient unreachable")
	}
	return nil
}

func pendingNotification(id int64) *entity.Notification {
	return &entity.Notification{
		ID:         id,
		WorkItemID: 1,
		Status:     entity.NotificationStatusPending,
		Message:    "work item 1 moved from CREATED to REQUESTED",
		CreatedAt:  time.Now(),
	}
}

func TestDeliveryWorker_DrainsPending(t *testing.T) {
	svc := &stubNotificationService{
		pending: []*entity.Notification{pendingNotification(1), pendingNotification(2)},
	}
	w := NewDeliveryWorker(svc, &stubDeliverer{}, zap.NewNop(),
		WithPollInterval(10*time.Millisecond))

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.Eventually(t, func() bool {
		delivered, _ := svc.counts()
		return delivered == 2
	}, time.Second, 5*time.Millisecond)

	_, failed := svc.counts()
	assert.Zero(t, failed)
}

func TestDeliveryWorker_MarksFailures(t *testing.T) {
	svc := &stubNotificationService{
		pending: []*entity.Notification{pendingNotification(1), pendingNotification(2)},
	}
	deliverer := &stubDeliverer{failIDs: map[int64]bool{2: true}}
	w := NewDeliveryWorker(svc, deliverer, zap.NewNop(),
		WithPollInterval(10*time.Millisecond))

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.Eventually(t, func() bool {
		delivered, failed := svc.counts()
		return delivered == 1 && failed == 1
	}, time.Second, 5*time.Millisecond)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []int64{1}, svc.delivered)
	assert.Equal(t, []int64{2}, svc.failed)
}

func TestDeliveryWorker_StartTwice(t *testing.T) {
	svc := &stubNotificationService{}
	w := NewDeliveryWorker(svc, &stubDeliverer{}, zap.NewNop(),
		WithPollInterval(time.Hour))

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}

func TestDeliveryWorker_StopIsIdempotent(t *testing.T) {
	svc := &stubNotificationService{}
	w := NewDeliveryWorker(svc, &stubDeliverer{}, zap.NewNop(),
		WithPollInterval(time.Hour))

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}

func TestLogDeliverer(t *testing.T) {
	d := NewLogDeliverer(zap.NewNop())
	assert.NoError(t, d.Deliver(context.Background(), pendingNotification(1)))
}
