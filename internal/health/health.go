// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package health tracks backend reachability for the status surfaces.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/kenzydocs/docchat-tui/internal/backend"
)

// DefaultInterval is the polling cadence when the config leaves it
// unset.
const DefaultInterval = 60 * time.Second

// Checker is the slice of the backend client the monitor needs.
type Checker interface {
	Health(ctx context.Context) (*backend.HealthStatus, error)
}

// Status is the result of the most recent health check.
type Status struct {
	Healthy   bool
	Version   string
	Err       error
	CheckedAt time.Time
}

// =============================================================================
// MONITOR
// =============================================================================

// Monitor performs health checks and retains the latest result. The
// TUI schedules Check on its poll timer; the CLI status command runs a
// single Check directly.
type Monitor struct {
	checker  Checker
	interval time.Duration

	mu   sync.Mutex
	last Status
}

// NewMonitor creates a monitor. A non-positive interval falls back to
// DefaultInterval.
func NewMonitor(checker Checker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
	}
}

// Interval returns the polling cadence.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Check performs one health check and records the result.
func (m *Monitor) Check(ctx context.Context) Status {
	status := Status{CheckedAt: time.Now()}

	hs, err := m.checker.Health(ctx)
	if err != nil {
		status.Err = err
	} else {
		status.Healthy = hs.Healthy()
		status.Version = hs.Version
	}

	m.mu.Lock()
	m.last = status
	m.mu.Unlock()

	return status
}

// Last returns the most recent result. A zero CheckedAt means no check
// has run yet.
func (m *Monitor) Last() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
