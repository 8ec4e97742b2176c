// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package store

import (
	"context"

	"github.com/kfwei/libro/internal/api"
	"github.com/kfwei/libro/internal/metrics"
)

// FetchNotifications loads a page of the notification feed into the
// cache along with the authoritative unread counter. Without an
// authenticated user the cached feed is cleared and no request is made.
func (s *Store) FetchNotifications(ctx context.Context, query api.NotificationQuery) error {
	if !s.session.Authenticated() {
		s.mu.Lock()
		s.notifications = nil
		s.unreadCount = 0
		s.mu.Unlock()
		metrics.UnreadCount.Set(0)
		return ErrNotAuthenticated
	}

	page, err := s.client.GetNotifications(ctx, query)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.notifications = page.Notifications
	s.unreadCount = page.UnreadCount
	s.mu.Unlock()
	metrics.UnreadCount.Set(float64(page.UnreadCount))
	return nil
}

// MarkNotificationRead marks one notification as read and adjusts the
// cached entry and counter. The counter never goes below zero: the local
// feed can lag the server's.
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	if !s.session.Authenticated() {
		return ErrNotAuthenticated
	}

	if err := s.client.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].Read {
			s.notifications[i].Read = true
			if s.unreadCount > 0 {
				s.unreadCount--
			}
			break
		}
	}
	count := s.unreadCount
	s.mu.Unlock()
	metrics.UnreadCount.Set(float64(count))
	return nil
}

// MarkAllNotificationsRead marks the whole feed read and zeroes the
// counter. Returns how many entries the service updated.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	if !s.session.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	updated, err := s.client.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.unreadCount = 0
	s.mu.Unlock()
	metrics.UnreadCount.Set(0)
	return updated, nil
}

// ClearAllNotifications deletes the caller's notifications and empties
// the cached feed. Returns how many entries the service removed.
func (s *Store) ClearAllNotifications(ctx context.Context) (int, error) {
	if !s.session.Authenticated() {
		return 0, ErrNotAuthenticated
	}

	deleted, err := s.client.ClearNotifications(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.notifications = nil
	s.unreadCount = 0
	s.mu.Unlock()
	metrics.UnreadCount.Set(0)
	return deleted, nil
}
