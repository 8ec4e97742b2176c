// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Package metrics registers Prometheus instrumentation for Libro.
//
// Counters cover the request surface, the post-mutation refresh sequence,
// recommendation outcomes, and the unread-count poller. They are registered
// via promauto on the default registry; cmd exposes them at /metrics when
// the metrics listener is enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts request/response calls by endpoint and outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_api_requests_total",
			Help: "Total number of library service API calls",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok" or "error"
	)

	// APIRequestDuration tracks request latency by endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "libro_api_request_duration_seconds",
			Help:    "Duration of library service API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// CacheRefreshTotal counts post-mutation refresh steps by step and outcome.
	// Refresh failures degrade to stale data, so this counter is the only
	// place they remain visible.
	CacheRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_cache_refresh_total",
			Help: "Total number of cache refresh steps after mutations",
		},
		[]string{"step", "outcome"}, // step: "books", "stats", "borrowings", "unread"
	)

	// MutationsTotal counts coordinator runs by operation and outcome.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_mutations_total",
			Help: "Total number of mutating operations",
		},
		[]string{"operation", "outcome"},
	)

	// RecommendationOutcomes counts terminal outcomes of recommendation
	// subscriptions: completed, failed, timeout, channel_error.
	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_recommendation_outcomes_total",
			Help: "Terminal outcomes of recommendation subscriptions",
		},
		[]string{"outcome"},
	)

	// WSConnectsTotal counts websocket dial attempts for the push channel.
	WSConnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_ws_connects_total",
			Help: "Total number of realtime channel connection attempts",
		},
		[]string{"outcome"},
	)

	// UnreadPollTotal counts unread-counter refresh attempts, from
	// poller ticks and post-mutation triggers alike.
	UnreadPollTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_unread_poll_total",
			Help: "Total number of unread-count refresh attempts",
		},
		[]string{"outcome"}, // "ok", "error", "skipped" (not authenticated)
	)

	// UnreadCount mirrors the cached unread-notification counter.
	UnreadCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "libro_unread_notifications",
			Help: "Last known unread notification count",
		},
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "libro_circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=half-open, 2=open",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// CircuitBreakerRequests counts requests through the breaker by result.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "libro_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)
)

// Outcome labels shared by the vectors above.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)
