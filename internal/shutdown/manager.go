package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"histogram-tool/internal/logger"
)

// Manager cancels its context on SIGINT or SIGTERM. A running computation
// observes the cancellation, joins its workers and returns.
type Manager struct {
	logger logger.Logger
	mu     sync.Mutex
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	sigs   chan os.Signal
	signal os.Signal
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger: log,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		sigs:   make(chan os.Signal, 1),
	}
}

func (m *Manager) Listen() {
	signal.Notify(m.sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-m.sigs:
			m.mu.Lock()
			m.signal = sig
			m.mu.Unlock()
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

// Shutdown cancels the context. It is safe to call more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	signal.Stop(m.sigs)
	m.cancel()
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Interrupted reports whether a signal triggered the shutdown.
func (m *Manager) Interrupted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signal != nil
}
