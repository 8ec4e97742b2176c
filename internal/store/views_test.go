// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package store

import (
	"context"
	"testing"

	"github.com/kfwei/libro/internal/models"
)

func viewFixtureStore(t *testing.T) *Store {
	t.Helper()
	client := &fakeClient{
		getBooks: func(ctx context.Context) ([]models.Book, error) {
			return []models.Book{
				{ID: "B1", Title: "Neuromancer", Author: "Gibson", Publisher: "Ace", IsAvailable: true},
				{ID: "B2", Title: "Foundation", Author: "Smith", Publisher: "Gnome", IsAvailable: false},
				{ID: "B3", Title: "Hyperion", Author: "Simmons", Publisher: "Doubleday", IsAvailable: true},
			}, nil
		},
	}
	s, _ := newTestStore(client)
	if err := s.LoadBooks(context.Background()); err != nil {
		t.Fatalf("LoadBooks: %v", err)
	}
	return s
}

func bookIDs(books []models.Book) []string {
	ids := make([]string, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	return ids
}

func checkOrder(t *testing.T, got []models.Book, want ...string) {
	t.Helper()
	ids := bookIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestFilteredBooksIdentity(t *testing.T) {
	s := viewFixtureStore(t)
	// Empty term, id sort: the view reproduces the raw list order.
	checkOrder(t, s.FilteredBooks(), "B1", "B2", "B3")
}

func TestFilteredBooksSearchMatchesAnyField(t *testing.T) {
	s := viewFixtureStore(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"author match", "smith", []string{"B2"}},
		{"title match", "hyper", []string{"B3"}},
		{"publisher match", "ace", []string{"B1"}},
		{"id match", "b3", []string{"B3"}},
		{"case insensitive", "FOUNDATION", []string{"B2"}},
		{"no match", "tolkien", nil},
		{"shared substring", "o", []string{"B1", "B2", "B3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.SetSearchQuery(tc.query)
			checkOrder(t, s.FilteredBooks(), tc.want...)
		})
	}
}

func TestFilteredBooksSortKeys(t *testing.T) {
	s := viewFixtureStore(t)

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortByID, []string{"B1", "B2", "B3"}},
		{SortByTitle, []string{"B2", "B3", "B1"}},
		{SortByAuthor, []string{"B1", "B3", "B2"}},
		// Available first; ties broken by id ascending.
		{SortByAvailability, []string{"B1", "B3", "B2"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.key), func(t *testing.T) {
			s.SetSearchQuery("")
			s.SetSortKey(tc.key)
			checkOrder(t, s.FilteredBooks(), tc.want...)
		})
	}
}

func TestSetSortKeyUnknownFallsBackToID(t *testing.T) {
	s := viewFixtureStore(t)
	s.SetSortKey(SortKey("popularity"))
	if got := s.SortKeyValue(); got != SortByID {
		t.Errorf("expected fallback to id, got %s", got)
	}
}

func TestFilteredBooksFilterThenSort(t *testing.T) {
	s := viewFixtureStore(t)
	s.SetSearchQuery("o")
	s.SetSortKey(SortByTitle)
	checkOrder(t, s.FilteredBooks(), "B2", "B3", "B1")
}

func TestFilteredBooksDeterministic(t *testing.T) {
	s := viewFixtureStore(t)
	s.SetSearchQuery("o")
	s.SetSortKey(SortByAvailability)

	first := bookIDs(s.FilteredBooks())
	for i := 0; i < 5; i++ {
		again := bookIDs(s.FilteredBooks())
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: ordering changed from %v to %v", i, first, again)
			}
		}
	}
}

func TestFilteredBooksDoesNotAliasCache(t *testing.T) {
	s := viewFixtureStore(t)

	view := s.FilteredBooks()
	view[0].Title = "mutated"

	if got := s.Books()[0].Title; got != "Neuromancer" {
		t.Errorf("view mutation leaked into the cache: %q", got)
	}
}
