// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package api

import (
	"context"
	"net/http"

	"github.com/kfwei/libro/internal/models"
)

// Login authenticates against the service. Credential storage and the
// wider handshake stay with the caller; this is the bare endpoint.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
		Name     string `json:"name"`
		UserType string `json:"userType"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &models.User{Username: resp.Username, Name: resp.Name, UserType: resp.UserType}, nil
}

// Logout ends the service-side session.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// WhoAmI reports the currently authenticated user.
func (c *HTTPClient) WhoAmI(ctx context.Context) (*models.User, error) {
	var resp struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
		UserType string `json:"userType"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/whoami", nil, &resp); err != nil {
		return nil, err
	}
	return &models.User{Username: resp.Username, UserType: resp.UserType}, nil
}
