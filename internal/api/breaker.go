// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
breaker.go - Circuit Breaker Client

Wraps a Client with the circuit breaker pattern so a dead or degraded
library service stops costing each caller a full timeout. The breaker
uses real time for its interval and timeout calculations; unit tests
should exercise the wrapped client directly.
*/

package api

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/metrics"
	"github.com/kfwei/libro/internal/models"
)

// Ensure BreakerClient implements Client
var _ Client = (*BreakerClient)(nil)

// BreakerClient wraps a Client with circuit breaker protection.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerClient wraps client with a circuit breaker.
func NewBreakerClient(client Client) *BreakerClient {
	const cbName = "library-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Opens when failure rate >= 60% with minimum 10 requests
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[breaker] Opening library-api circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("[breaker] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, breakerStateString(from), breakerStateString(to)).Inc()
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// execute runs one wrapped call and keeps the breaker metrics current.
func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// run is execute for calls with no result value.
func (b *BreakerClient) run(fn func() error) error {
	_, err := b.execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

func breakerStateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// GetBooks wraps Client.GetBooks.
func (b *BreakerClient) GetBooks(ctx context.Context) ([]models.Book, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetBooks(ctx) })
	if err != nil {
		return nil, err
	}
	return result.([]models.Book), nil
}

// GetBookByID wraps Client.GetBookByID.
func (b *BreakerClient) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetBookByID(ctx, id) })
	if err != nil {
		return nil, err
	}
	return result.(*models.Book), nil
}

// BorrowBook wraps Client.BorrowBook.
func (b *BreakerClient) BorrowBook(ctx context.Context, bookID string) error {
	return b.run(func() error { return b.client.BorrowBook(ctx, bookID) })
}

// ReturnBook wraps Client.ReturnBook.
func (b *BreakerClient) ReturnBook(ctx context.Context, bookID string) error {
	return b.run(func() error { return b.client.ReturnBook(ctx, bookID) })
}

// AddBook wraps Client.AddBook.
func (b *BreakerClient) AddBook(ctx context.Context, book *models.Book) error {
	return b.run(func() error { return b.client.AddBook(ctx, book) })
}

// UpdateBook wraps Client.UpdateBook.
func (b *BreakerClient) UpdateBook(ctx context.Context, book *models.Book) error {
	return b.run(func() error { return b.client.UpdateBook(ctx, book) })
}

// DeleteBook wraps Client.DeleteBook.
func (b *BreakerClient) DeleteBook(ctx context.Context, bookID string) error {
	return b.run(func() error { return b.client.DeleteBook(ctx, bookID) })
}

// GetStats wraps Client.GetStats.
func (b *BreakerClient) GetStats(ctx context.Context) (*models.Stats, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetStats(ctx) })
	if err != nil {
		return nil, err
	}
	return result.(*models.Stats), nil
}

// GetCurrentBorrowings wraps Client.GetCurrentBorrowings.
func (b *BreakerClient) GetCurrentBorrowings(ctx context.Context) ([]models.BorrowRecord, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetCurrentBorrowings(ctx) })
	if err != nil {
		return nil, err
	}
	return result.([]models.BorrowRecord), nil
}

// GetUserHistory wraps Client.GetUserHistory.
func (b *BreakerClient) GetUserHistory(ctx context.Context) ([]models.BorrowRecord, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetUserHistory(ctx) })
	if err != nil {
		return nil, err
	}
	return result.([]models.BorrowRecord), nil
}

// GetNotifications wraps Client.GetNotifications.
func (b *BreakerClient) GetNotifications(ctx context.Context, opts NotificationQuery) (*models.NotificationPage, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetNotifications(ctx, opts) })
	if err != nil {
		return nil, err
	}
	return result.(*models.NotificationPage), nil
}

// GetUnreadCount wraps Client.GetUnreadCount.
func (b *BreakerClient) GetUnreadCount(ctx context.Context) (int, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetUnreadCount(ctx) })
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// MarkNotificationRead wraps Client.MarkNotificationRead.
func (b *BreakerClient) MarkNotificationRead(ctx context.Context, id int64) error {
	return b.run(func() error { return b.client.MarkNotificationRead(ctx, id) })
}

// MarkAllNotificationsRead wraps Client.MarkAllNotificationsRead.
func (b *BreakerClient) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	result, err := b.execute(func() (any, error) { return b.client.MarkAllNotificationsRead(ctx) })
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// ClearNotifications wraps Client.ClearNotifications.
func (b *BreakerClient) ClearNotifications(ctx context.Context) (int, error) {
	result, err := b.execute(func() (any, error) { return b.client.ClearNotifications(ctx) })
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// SubmitRecommendationTask wraps Client.SubmitRecommendationTask.
func (b *BreakerClient) SubmitRecommendationTask(ctx context.Context) (*models.TaskHandle, error) {
	result, err := b.execute(func() (any, error) { return b.client.SubmitRecommendationTask(ctx) })
	if err != nil {
		return nil, err
	}
	return result.(*models.TaskHandle), nil
}

// GetRelatedRecommendations wraps Client.GetRelatedRecommendations.
func (b *BreakerClient) GetRelatedRecommendations(ctx context.Context, bookID string) ([]models.RecommendationWithBook, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetRelatedRecommendations(ctx, bookID) })
	if err != nil {
		return nil, err
	}
	return result.([]models.RecommendationWithBook), nil
}

// RateBook wraps Client.RateBook.
func (b *BreakerClient) RateBook(ctx context.Context, bookID string, rating int) (*models.BookRating, error) {
	result, err := b.execute(func() (any, error) { return b.client.RateBook(ctx, bookID, rating) })
	if err != nil {
		return nil, err
	}
	return result.(*models.BookRating), nil
}

// GetBookRating wraps Client.GetBookRating.
func (b *BreakerClient) GetBookRating(ctx context.Context, bookID string) (*models.BookRating, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetBookRating(ctx, bookID) })
	if err != nil {
		return nil, err
	}
	return result.(*models.BookRating), nil
}

// AddReview wraps Client.AddReview.
func (b *BreakerClient) AddReview(ctx context.Context, bookID, text string) (int64, error) {
	result, err := b.execute(func() (any, error) { return b.client.AddReview(ctx, bookID, text) })
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// GetBookReviews wraps Client.GetBookReviews.
func (b *BreakerClient) GetBookReviews(ctx context.Context, bookID string) ([]models.BookReview, error) {
	result, err := b.execute(func() (any, error) { return b.client.GetBookReviews(ctx, bookID) })
	if err != nil {
		return nil, err
	}
	return result.([]models.BookReview), nil
}

// UpdateReview wraps Client.UpdateReview.
func (b *BreakerClient) UpdateReview(ctx context.Context, reviewID int64, text string) error {
	return b.run(func() error { return b.client.UpdateReview(ctx, reviewID, text) })
}

// DeleteReview wraps Client.DeleteReview.
func (b *BreakerClient) DeleteReview(ctx context.Context, reviewID int64) error {
	return b.run(func() error { return b.client.DeleteReview(ctx, reviewID) })
}

// Login wraps Client.Login.
func (b *BreakerClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	result, err := b.execute(func() (any, error) { return b.client.Login(ctx, username, password) })
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// Logout wraps Client.Logout.
func (b *BreakerClient) Logout(ctx context.Context) error {
	return b.run(func() error { return b.client.Logout(ctx) })
}

// WhoAmI wraps Client.WhoAmI.
func (b *BreakerClient) WhoAmI(ctx context.Context) (*models.User, error) {
	result, err := b.execute(func() (any, error) { return b.client.WhoAmI(ctx) })
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}
