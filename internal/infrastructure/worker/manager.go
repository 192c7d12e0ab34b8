package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Runner is a background worker with a managed lifecycle
type Runner interface {
	Start(ctx context.Context) error
	Stop()
	Name() string
}

// Manager starts and stops a set of background workers together so the
// server has one shutdown point for all of them.
type Manager struct {
	runners []Runner
	logger  *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewManager creates a worker manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a worker to be managed. Must be called before StartAll.
func (m *Manager) Register(r Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runners = append(m.runners, r)
}

// StartAll starts every registered worker. A worker that fails to start is
// logged and skipped; the others still run.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return fmt.Errorf("workers already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.isRunning = true

	for _, r := range m.runners {
		if err := r.Start(runCtx); err != nil {
			m.logger.Error("Failed to start worker",
				zap.String("worker", r.Name()), zap.Error(err))
			continue
		}
		m.logger.Info("Worker started", zap.String("worker", r.Name()))
	}
	return nil
}

// StopAll stops every worker and waits for them to drain
func (m *Manager) StopAll() {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return
	}
	m.isRunning = false
	m.cancel()
	runners := m.runners
	m.mu.Unlock()

	for _, r := range runners {
		r.Stop()
		m.logger.Info("Worker stopped", zap.String("worker", r.Name()))
	}
}
