// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package supervisor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/notify"
)

type countingRefresher struct {
	calls atomic.Int64
}

func (r *countingRefresher) RefreshUnreadCount(ctx context.Context) error {
	r.calls.Add(1)
	return nil
}

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 {
		t.Errorf("failure threshold: expected 5.0, got %v", cfg.FailureThreshold)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout: expected 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestNewTreeAppliesDefaultsToZeroConfig(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{})
	if tree.root == nil || tree.background == nil {
		t.Fatal("expected both supervisors to be created")
	}
}

func TestPollerServiceRunsUnderTree(t *testing.T) {
	refresher := &countingRefresher{}
	poller := notify.NewPoller(refresher, 5*time.Millisecond)

	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())
	tree.AddBackgroundService(NewPollerService(poller))

	ctx, cancel := context.WithCancel(context.Background())
	errChan := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for refresher.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("poller never refreshed under supervision")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-errChan:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after context cancel")
	}
	if poller.Running() {
		t.Error("poller still running after shutdown")
	}
}

func TestPollerServiceName(t *testing.T) {
	svc := NewPollerService(notify.NewPoller(&countingRefresher{}, time.Minute))
	if svc.String() != "unread-poller" {
		t.Errorf("unexpected service name %q", svc.String())
	}
}
