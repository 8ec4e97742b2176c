// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package store

import (
	"sort"
	"strings"

	"github.com/kfwei/libro/internal/models"
)

// SortKey selects the ordering of the filtered catalog view.
type SortKey string

// Supported sort keys.
const (
	SortByID           SortKey = "id"
	SortByTitle        SortKey = "title"
	SortByAuthor       SortKey = "author"
	SortByAvailability SortKey = "available"
)

// SetSearchQuery updates the active search term. The filtered view
// reflects it on the next read.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SearchQuery returns the active search term.
func (s *Store) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// SetSortKey updates the active sort key. Unknown keys fall back to id
// ordering.
func (s *Store) SetSortKey(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case SortByID, SortByTitle, SortByAuthor, SortByAvailability:
		s.sortKey = key
	default:
		s.sortKey = SortByID
	}
}

// SortKeyValue returns the active sort key.
func (s *Store) SortKeyValue() SortKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortKey
}

// FilteredBooks computes the derived catalog view: case-insensitive
// substring filter over title, author, publisher and id, then a stable
// sort by the active key. An empty search term is the identity filter.
// The computation is pure; the same raw state, term and key always
// produce the same ordering.
func (s *Store) FilteredBooks() []models.Book {
	s.mu.RLock()
	books := make([]models.Book, len(s.books))
	copy(books, s.books)
	query := s.searchQuery
	key := s.sortKey
	s.mu.RUnlock()

	return filterAndSort(books, query, key)
}

// IsBorrowed reports whether the given book is in the caller's cached
// current-borrowings set. The cached flag is a hint; the service decides
// conflicts.
func (s *Store) IsBorrowed(bookID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.borrowedIDs[bookID]
	return ok
}

// filterAndSort applies the filter first, then the stable sort.
func filterAndSort(books []models.Book, query string, key SortKey) []models.Book {
	result := books
	if query != "" {
		q := strings.ToLower(query)
		result = result[:0]
		for i := range books {
			if bookMatches(&books[i], q) {
				result = append(result, books[i])
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return bookLess(&result[i], &result[j], key)
	})
	return result
}

func bookMatches(b *models.Book, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(b.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(b.Author), loweredQuery) ||
		strings.Contains(strings.ToLower(b.Publisher), loweredQuery) ||
		strings.Contains(strings.ToLower(b.ID), loweredQuery)
}

func bookLess(a, b *models.Book, key SortKey) bool {
	switch key {
	case SortByTitle:
		return a.Title < b.Title
	case SortByAuthor:
		return a.Author < b.Author
	case SortByAvailability:
		// Available first, ties broken by id ascending
		if a.IsAvailable != b.IsAvailable {
			return a.IsAvailable
		}
		return a.ID < b.ID
	default:
		return a.ID < b.ID
	}
}
