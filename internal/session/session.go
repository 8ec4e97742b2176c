// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Package session exposes the authentication state consumed by the rest
// of the client. Credential storage and the login handshake are the
// embedding application's concern; this package only answers "is someone
// logged in" and "who".
package session

import (
	"sync"

	"github.com/kfwei/libro/internal/models"
)

// Session reports the current authentication state.
type Session interface {
	// Authenticated reports whether a user is logged in.
	Authenticated() bool

	// CurrentUser returns the logged-in user, or nil.
	CurrentUser() *models.User
}

// Memory is a minimal in-process Session the embedding application
// updates as the login state changes.
type Memory struct {
	mu   sync.RWMutex
	user *models.User
}

// Ensure Memory implements Session
var _ Session = (*Memory)(nil)

// NewMemory returns an unauthenticated session.
func NewMemory() *Memory {
	return &Memory{}
}

// SetUser records a successful login.
func (m *Memory) SetUser(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

// Clear records a logout.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
}

// Authenticated reports whether a user is logged in.
func (m *Memory) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// CurrentUser returns the logged-in user, or nil.
func (m *Memory) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}
