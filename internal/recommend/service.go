// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
service.go - Personal Recommendation Flow

The full three-step flow: submit the generation task over REST, await
its terminal outcome on the push channel, assemble the raw records into
book-resolved results. Generation is slow (the service runs a language
model), which is why the result is pushed instead of returned inline.
*/

// Package recommend implements the asynchronous personal-recommendation
// flow: task submission, the realtime result subscription, and result
// assembly.
package recommend

import (
	"context"
	"time"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/models"
)

// DefaultTimeout bounds one recommendation invocation end to end,
// measured from submission acknowledgement.
const DefaultTimeout = 60 * time.Second

// Backend is the slice of the service API this flow consumes. api.Client
// satisfies it.
type Backend interface {
	SubmitRecommendationTask(ctx context.Context) (*models.TaskHandle, error)
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
}

// Service runs the asynchronous recommendation flow.
type Service struct {
	client  Backend
	wsURL   string
	timeout time.Duration
}

// NewService creates a Service. A zero or negative timeout selects
// DefaultTimeout.
func NewService(client Backend, wsURL string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		client:  client,
		wsURL:   wsURL,
		timeout: timeout,
	}
}

// PersonalRecommendations submits a generation task for the logged-in
// user and blocks until its outcome. On success the returned list is
// book-resolved and ordered as the service ranked it; entries whose
// book lookup fails are dropped. Failures are one of *SubmissionError,
// *TaskFailedError, *TimeoutError or *ChannelError.
func (s *Service) PersonalRecommendations(ctx context.Context) ([]models.RecommendationWithBook, error) {
	handle, err := s.client.SubmitRecommendationTask(ctx)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}

	logging.Debug().Str("taskId", handle.TaskID).Msg("[recommend] Task submitted, awaiting result")

	recs, err := awaitResult(ctx, s.wsURL, handle.TaskID, s.timeout)
	if err != nil {
		return nil, err
	}

	return assemble(ctx, s.client, recs), nil
}
