// Package health tracks the availability of the storefront's external
// collaborators (backend API, chat link). Each registered check runs in its
// own background goroutine at a fixed interval, with consecutive
// failure/success thresholds so a single blip does not flap a section into
// its degraded state. A failed check degrades only the sections that depend
// on it; the rest of the engine stays interactive.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one collaborator. It returns nil when the collaborator is
// reachable and healthy.
type CheckFunc func(ctx context.Context) error

// check holds the configuration and runtime state for a single probe.
//
// Concurrency model: run() is called from exactly one goroutine (the
// ticker), so the consecutive counters need no synchronization. The
// available flag and lastErr are read from arbitrary goroutines and use
// atomics.
type check struct {
	name             string
	timeout          time.Duration
	probe            CheckFunc
	failureThreshold int
	successThreshold int

	available atomic.Bool
	lastErr   atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func (c *check) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.probe(probeCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.available.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.available.Store(true)
		}
	}
}

// Monitor runs availability checks for the engine's sections.
type Monitor struct {
	mu     sync.RWMutex
	checks map[string]*check
	cancel context.CancelFunc
}

// NewMonitor creates an empty Monitor. Register checks before Start.
func NewMonitor() *Monitor {
	return &Monitor{checks: make(map[string]*check)}
}

// AddCheck registers a named availability check. Sections start available
// and degrade after two consecutive failures; one success restores them.
func (m *Monitor) AddCheck(name string, timeout time.Duration, probe CheckFunc) {
	c := &check{
		name:             name,
		timeout:          timeout,
		probe:            probe,
		failureThreshold: 2,
		successThreshold: 1,
	}
	c.available.Store(true)

	m.mu.Lock()
	m.checks[name] = c
	m.mu.Unlock()
}

// Start launches one probe goroutine per registered check.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	runCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.cancel = cancel
	checks := make([]*check, 0, len(m.checks))
	for _, c := range m.checks {
		checks = append(checks, c)
	}
	m.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			c.run(runCtx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
					c.run(runCtx)
				}
			}
		}(c)
	}
}

// Stop terminates all probe goroutines.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Available reports whether the named section is currently available.
// Unknown names are reported available so an unregistered section never
// blocks the UI.
func (m *Monitor) Available(name string) bool {
	m.mu.RLock()
	c, ok := m.checks[name]
	m.mu.RUnlock()
	if !ok {
		return true
	}
	return c.available.Load()
}

// Snapshot returns the state of every check: "ok" or the last error text.
func (m *Monitor) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.checks))
	for name, c := range m.checks {
		if c.available.Load() {
			out[name] = "ok"
			continue
		}
		msg := "unavailable"
		if p := c.lastErr.Load(); p != nil && *p != nil {
			msg = (*p).Error()
		}
		out[name] = msg
	}
	return out
}
