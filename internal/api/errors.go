// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package api

import "fmt"

// APIError is returned for any non-success HTTP status. The service's
// error bodies optionally carry two human-readable fields, "error" and
// "message"; both are captured so callers can resolve a user-facing
// message in priority order (error text, then message text, then their
// own fallback).
type APIError struct {
	Endpoint   string
	StatusCode int
	ErrText    string // body "error" field, if present
	Message    string // body "message" field, if present
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.ErrText != "":
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.ErrText)
	case e.Message != "":
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
}

// UserMessage resolves the message shown to the user: server error text
// first, then server message text, then the given fallback.
func (e *APIError) UserMessage(fallback string) string {
	if e.ErrText != "" {
		return e.ErrText
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
