// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kfwei/libro/internal/models"
)

// NotificationQuery narrows a notification listing. Zero values mean
// "no constraint".
type NotificationQuery struct {
	UnreadOnly bool
	Type       string
	Limit      int
	Offset     int
}

func (q NotificationQuery) encode() string {
	params := url.Values{}
	if q.UnreadOnly {
		params.Set("unreadOnly", "true")
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// GetNotifications retrieves a page of the caller's notification feed
// along with the authoritative unread counter.
func (c *HTTPClient) GetNotifications(ctx context.Context, opts NotificationQuery) (*models.NotificationPage, error) {
	var page models.NotificationPage
	if err := c.do(ctx, http.MethodGet, "/notifications"+opts.encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUnreadCount retrieves the unread-notification counter.
func (c *HTTPClient) GetUnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Success     bool `json:"success"`
		UnreadCount int  `json:"unreadCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}

// MarkNotificationRead marks one notification as read.
func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("/notifications/%d/read", id)
	return c.do(ctx, http.MethodPost, endpoint, nil, nil)
}

// MarkAllNotificationsRead marks every notification as read and reports
// how many entries the service updated.
func (c *HTTPClient) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var resp struct {
		Success      bool `json:"success"`
		UpdatedCount int  `json:"updatedCount"`
	}
	if err := c.do(ctx, http.MethodPost, "/notifications/read-all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.UpdatedCount, nil
}

// ClearNotifications deletes the caller's notifications and reports how
// many entries were removed.
func (c *HTTPClient) ClearNotifications(ctx context.Context) (int, error) {
	var resp struct {
		Success      bool `json:"success"`
		DeletedCount int  `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodDelete, "/notifications/clear", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}
