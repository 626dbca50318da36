// Package health polls the backend's liveness endpoint on a schedule so
// attached surfaces can show an online/offline indicator without issuing
// their own requests.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/user/newsradio/internal/types"
)

// Handler is invoked after every poll with the latest status. A nil status
// means the backend is offline or unreachable.
type Handler func(status *types.HealthStatus)

// Monitor periodically checks backend health and tracks the last result.
type Monitor struct {
	gateway  types.NewsGateway
	interval string
	handler  Handler
	cron     *cron.Cron

	mu     sync.RWMutex
	last   *types.HealthStatus
	online bool
	polled bool
}

// New creates a Monitor polling at the given cron interval (e.g. "@every 30s").
// handler may be nil.
func New(gateway types.NewsGateway, interval string, handler Handler) *Monitor {
	return &Monitor{
		gateway:  gateway,
		interval: interval,
		handler:  handler,
	}
}

// Start registers the poll with the cron ticker and kicks off an immediate
// first poll in the background.
func (m *Monitor) Start() error {
	m.cron = cron.New()
	if _, err := m.cron.AddFunc(m.interval, m.poll); err != nil {
		return fmt.Errorf("invalid health interval %q: %w", m.interval, err)
	}
	go m.poll()
	m.cron.Start()
	return nil
}

// Stop stops the cron ticker. A poll already in flight is allowed to finish.
func (m *Monitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

// Last returns the most recent health status, or nil if the backend was
// offline at the last poll (or no poll has completed yet).
func (m *Monitor) Last() *types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Online reports whether the last poll reached the backend.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *Monitor) poll() {
	status := m.gateway.CheckHealth(context.Background())
	online := status != nil

	m.mu.Lock()
	changed := !m.polled || online != m.online
	m.last = status
	m.online = online
	m.polled = true
	m.mu.Unlock()

	if changed {
		if online {
			slog.Info("news backend online", "status", status.Status)
		} else {
			slog.Warn("news backend offline")
		}
	}

	if m.handler != nil {
		m.handler(status)
	}
}
