// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Service wrappers adapting the client's background components to the
// suture.Service interface.

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/notify"
)

// PollerService runs the unread-count poller under supervision.
type PollerService struct {
	poller *notify.Poller
}

// NewPollerService wraps a poller as a suture service.
func NewPollerService(poller *notify.Poller) *PollerService {
	return &PollerService{poller: poller}
}

// Serve implements suture.Service. The poller runs until the context is
// canceled, then is stopped synchronously.
func (s *PollerService) Serve(ctx context.Context) error {
	s.poller.Start(ctx)
	<-ctx.Done()
	s.poller.Stop()
	return ctx.Err()
}

// String names the service in supervision events.
func (s *PollerService) String() string {
	return "unread-poller"
}

// MetricsService serves the Prometheus scrape endpoint.
type MetricsService struct {
	addr string
}

// NewMetricsService creates a metrics listener on the given address.
func NewMetricsService(addr string) *MetricsService {
	return &MetricsService{addr: addr}
}

// Serve implements suture.Service.
func (s *MetricsService) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	logging.Info().Str("addr", s.addr).Msg("[supervisor] Metrics listener started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("[supervisor] Metrics listener shutdown failed")
		}
		return ctx.Err()
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String names the service in supervision events.
func (s *MetricsService) String() string {
	return "metrics-listener"
}
