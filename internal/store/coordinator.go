// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
coordinator.go - Mutation Coordinator

Each state-changing call is followed by a fixed refresh sequence that
restores cache consistency before the mutation is reported successful:
book list, stats, current borrowings (all operations except update,
which cannot change availability), then an unread-count refresh. The
unread trigger is unconditional: borrow, return and delete generate a
notification server-side, and the call is cheap for the rest.

Failures of the mutation itself abort the sequence and surface as a
*MutationError. Failures of the refresh steps are logged and swallowed:
the mutation already succeeded, and stale data beats a false failure.
The coordinator never retries; retries are the caller's choice.
*/

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kfwei/libro/internal/api"
	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/metrics"
	"github.com/kfwei/libro/internal/models"
)

// MutationError is the typed failure of a coordinated mutation. Message
// is resolved in priority order: server error text, server message text,
// then a per-operation fallback.
type MutationError struct {
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the underlying call error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// Borrow borrows a book and refreshes the cache. The cached availability
// flag is not pre-validated; the service rejects conflicting borrows.
func (s *Store) Borrow(ctx context.Context, bookID string) error {
	return s.mutate(ctx, "borrow", "Failed to borrow book", true, func() error {
		return s.client.BorrowBook(ctx, bookID)
	})
}

// Return returns a borrowed book and refreshes the cache.
func (s *Store) Return(ctx context.Context, bookID string) error {
	return s.mutate(ctx, "return", "Failed to return book", true, func() error {
		return s.client.ReturnBook(ctx, bookID)
	})
}

// AddBook creates a catalog entry and refreshes the cache.
func (s *Store) AddBook(ctx context.Context, book *models.Book) error {
	return s.mutate(ctx, "add", "Failed to add book", true, func() error {
		return s.client.AddBook(ctx, book)
	})
}

// UpdateBook updates a catalog entry and refreshes the cache. Updates
// cannot change availability, so the borrowings set is left alone.
func (s *Store) UpdateBook(ctx context.Context, book *models.Book) error {
	return s.mutate(ctx, "update", "Failed to update book", false, func() error {
		return s.client.UpdateBook(ctx, book)
	})
}

// DeleteBook removes a catalog entry and refreshes the cache.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	return s.mutate(ctx, "delete", "Failed to delete book", true, func() error {
		return s.client.DeleteBook(ctx, bookID)
	})
}

// mutate runs one coordinated mutation: the call, then on success the
// refresh sequence. On call failure the sequence is skipped entirely.
func (s *Store) mutate(ctx context.Context, op, fallback string, refreshBorrowings bool, call func() error) error {
	if err := call(); err != nil {
		metrics.MutationsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		return &MutationError{
			Op:      op,
			Message: resolveMessage(err, fallback),
			Err:     err,
		}
	}

	s.refreshAfterMutation(ctx, op, refreshBorrowings)
	metrics.MutationsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return nil
}

// refreshAfterMutation runs the fixed refresh sequence. Step failures
// degrade to stale data: logged, counted, never propagated.
func (s *Store) refreshAfterMutation(ctx context.Context, op string, withBorrowings bool) {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"books", s.LoadBooks},
		{"stats", s.LoadStats},
	}
	if withBorrowings {
		steps = append(steps, struct {
			name string
			run  func(context.Context) error
		}{"borrowings", s.LoadBorrowings})
	}
	steps = append(steps, struct {
		name string
		run  func(context.Context) error
	}{"unread", s.RefreshUnreadCount})

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			metrics.CacheRefreshTotal.WithLabelValues(step.name, metrics.OutcomeError).Inc()
			logging.Warn().Err(err).
				Str("operation", op).
				Str("step", step.name).
				Msg("[store] Refresh step failed, cache may be stale")
			continue
		}
		metrics.CacheRefreshTotal.WithLabelValues(step.name, metrics.OutcomeOK).Inc()
	}
}

// resolveMessage picks the user-facing failure message for a mutation.
func resolveMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}
