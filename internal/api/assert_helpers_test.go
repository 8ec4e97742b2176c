// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package api

import "testing"

// Small assertion helpers shared by the package tests. t.Helper() keeps
// failure messages pointing at the calling line.

func checkStringEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", field, want, got)
	}
}

func checkIntEqual(t *testing.T, field string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", field, want, got)
	}
}

func checkTrue(t *testing.T, desc string, cond bool) {
	t.Helper()
	if !cond {
		t.Errorf("expected %s", desc)
	}
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
