// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
store.go - Entity Cache

Single-owner in-memory cache of the caller-visible library state: the
catalog, aggregate stats, the caller's active borrowings, and
notification state. All mutation goes through this struct's methods;
readers always observe a fully-formed snapshot because every commit
happens atomically under the lock, after the network call completed.

The mutation coordinator lives in coordinator.go, derived views in
views.go, notification operations in notifications.go.
*/

// Package store implements the client-side entity cache, its derived
// read-only views, and the mutation coordinator that keeps the cache
// consistent after state-changing calls.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/kfwei/libro/internal/api"
	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/metrics"
	"github.com/kfwei/libro/internal/models"
	"github.com/kfwei/libro/internal/session"
)

// ErrNotAuthenticated is returned by operations that require a logged-in
// user when the session reports none.
var ErrNotAuthenticated = errors.New("not authenticated")

// Store owns the cached entity collections. Create one per session and
// Clear it on logout.
type Store struct {
	client  api.Client
	session session.Session

	mu            sync.RWMutex
	books         []models.Book
	stats         models.Stats
	borrowings    []models.BorrowRecord
	borrowedIDs   map[string]struct{}
	notifications []models.Notification
	unreadCount   int
	searchQuery   string
	sortKey       SortKey
}

// New creates an empty Store backed by the given client and session.
func New(client api.Client, sess session.Session) *Store {
	return &Store{
		client:      client,
		session:     sess,
		borrowedIDs: map[string]struct{}{},
		sortKey:     SortByID,
	}
}

// LoadBooks re-fetches the catalog and replaces the cached book list.
func (s *Store) LoadBooks(ctx context.Context) error {
	books, err := s.client.GetBooks(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.books = books
	s.mu.Unlock()
	return nil
}

// LoadStats re-fetches the catalog aggregate. Stats are never adjusted
// locally; the service is the only source.
func (s *Store) LoadStats(ctx context.Context) error {
	stats, err := s.client.GetStats(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.stats = *stats
	s.mu.Unlock()
	return nil
}

// LoadBorrowings re-fetches the caller's active borrowings and rebuilds
// the borrowed-id set the membership predicate answers from.
func (s *Store) LoadBorrowings(ctx context.Context) error {
	records, err := s.client.GetCurrentBorrowings(ctx)
	if err != nil {
		return err
	}

	ids := make(map[string]struct{}, len(records))
	for i := range records {
		ids[records[i].BookID] = struct{}{}
	}

	s.mu.Lock()
	s.borrowings = records
	s.borrowedIDs = ids
	s.mu.Unlock()
	return nil
}

// RefreshUnreadCount refreshes the cached unread-notification counter.
// Without an authenticated user it resets the counter to zero and issues
// no request. On failure the previous count is retained.
func (s *Store) RefreshUnreadCount(ctx context.Context) error {
	if !s.session.Authenticated() {
		s.mu.Lock()
		s.unreadCount = 0
		s.mu.Unlock()
		metrics.UnreadCount.Set(0)
		metrics.UnreadPollTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}

	count, err := s.client.GetUnreadCount(ctx)
	if err != nil {
		metrics.UnreadPollTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	s.mu.Lock()
	s.unreadCount = count
	s.mu.Unlock()
	metrics.UnreadCount.Set(float64(count))
	metrics.UnreadPollTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

// Warm performs the initial full load at session start. Unlike the
// post-mutation refresh sequence, a failure here is returned: there is
// no previous consistent state to fall back to.
func (s *Store) Warm(ctx context.Context) error {
	if err := s.LoadBooks(ctx); err != nil {
		return err
	}
	if err := s.LoadStats(ctx); err != nil {
		return err
	}
	if err := s.LoadBorrowings(ctx); err != nil {
		return err
	}
	if err := s.RefreshUnreadCount(ctx); err != nil {
		logging.Warn().Err(err).Msg("[store] Unread count unavailable at warm-up")
	}
	return nil
}

// Clear drops all cached state. Call on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = nil
	s.stats = models.Stats{}
	s.borrowings = nil
	s.borrowedIDs = map[string]struct{}{}
	s.notifications = nil
	s.unreadCount = 0
	s.searchQuery = ""
	s.sortKey = SortByID
	metrics.UnreadCount.Set(0)
}

// Books returns a copy of the raw cached catalog.
func (s *Store) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Stats returns the cached catalog aggregate.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Borrowings returns a copy of the caller's cached active borrowings.
func (s *Store) Borrowings() []models.BorrowRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BorrowRecord, len(s.borrowings))
	copy(out, s.borrowings)
	return out
}

// UnreadCount returns the cached unread-notification counter.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

// Notifications returns a copy of the cached notification feed.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}
