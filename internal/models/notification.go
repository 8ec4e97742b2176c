// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package models

// Notification is a single entry in the caller's notification feed.
type Notification struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title,omitempty"`
	Message   string  `json:"message,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"createdAt"`
	ReadAt    *string `json:"readAt,omitempty"`
}

// NotificationPage is the service response for a notification listing.
// UnreadCount is authoritative server state: the local collection may be
// paginated, so the counter cannot be derived by counting entries.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	Total         int            `json:"total,omitempty"`
}
