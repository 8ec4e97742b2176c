// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
poller.go - Unread Count Poller

Periodic refresh of the unread-notification counter. The service pushes
no notification events, so the counter is polled: one immediate refresh
on start, then one per interval. Start replaces any schedule already
running, so at most one timer is ever live regardless of how many times
the session is re-established.
*/

// Package notify keeps the cached unread-notification counter current
// by polling the library service on a fixed interval.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/kfwei/libro/internal/logging"
)

// DefaultInterval is the polling cadence used when none is configured.
const DefaultInterval = 30 * time.Second

// Refresher re-fetches the unread counter into the cache. *store.Store
// satisfies it.
type Refresher interface {
	RefreshUnreadCount(ctx context.Context) error
}

// Poller periodically refreshes the unread-notification counter.
type Poller struct {
	refresher Refresher
	interval  time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPoller creates a poller. A zero or negative interval selects
// DefaultInterval.
func NewPoller(refresher Refresher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		refresher: refresher,
		interval:  interval,
	}
}

// Start begins the polling loop: an immediate refresh, then one per
// interval. If a loop is already running it is stopped first, so
// starting twice never doubles the refresh rate.
func (p *Poller) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	p.running = true
	p.stopChan = make(chan struct{})
	stop := p.stopChan
	p.mu.Unlock()

	logging.Info().Dur("interval", p.interval).Msg("[notify] Starting unread-count poller")

	p.wg.Add(1)
	go p.pollLoop(ctx, stop)
}

// Stop halts the polling loop and waits for it to exit. Calling Stop on
// a poller that is not running is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	logging.Info().Msg("[notify] Unread-count poller stopped")
}

// Running reports whether the polling loop is live.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) pollLoop(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll runs one refresh. Failures are logged and the schedule keeps
// going; the next tick retries naturally. Outcome accounting lives in
// the refresher, which knows whether a tick was skipped.
func (p *Poller) poll(ctx context.Context) {
	if err := p.refresher.RefreshUnreadCount(ctx); err != nil {
		logging.Warn().Err(err).Msg("[notify] Unread-count refresh failed")
	}
}
