// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Package models defines the data types exchanged with the library service.
//
// JSON field names match the service's wire format exactly; optional
// aggregate fields are pointers so "absent" and "zero" stay distinguishable.
package models

// Book is a single catalog entry. The ID is assigned by the service and
// unique across the catalog. Availability flips exactly on borrow
// (true to false) and return (false to true).
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Description string `json:"description,omitempty"`
	IsAvailable bool   `json:"isAvailable"`

	// Aggregates maintained by the service; present only on some endpoints.
	BorrowCount   *int     `json:"borrowCount,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	ReviewCount   *int     `json:"reviewCount,omitempty"`
}

// Stats is the derived catalog aggregate. It is never mutated locally;
// it is always recomputed by re-fetching after a catalog mutation.
type Stats struct {
	TotalBooks     int `json:"totalBooks"`
	AvailableBooks int `json:"availableBooks"`
	BorrowedBooks  int `json:"borrowedBooks"`
}

// BorrowStatus is the lifecycle state of a borrow record.
type BorrowStatus string

// Borrow record states as reported by the service.
const (
	StatusBorrowing BorrowStatus = "borrowing"
	StatusReturned  BorrowStatus = "returned"
	StatusOverdue   BorrowStatus = "overdue"
)

// BorrowRecord links a user and a book. Records are created on borrow,
// transition to returned on return, and are never deleted.
type BorrowRecord struct {
	ID         int          `json:"id"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName"`
	BookID     string       `json:"bookId"`
	BookTitle  string       `json:"bookTitle"`
	BorrowDate string       `json:"borrowDate"`
	DueDate    string       `json:"dueDate"`
	ReturnDate *string      `json:"returnDate"`
	Status     BorrowStatus `json:"status"`
}

// User identifies the authenticated caller.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	UserType string `json:"userType"`
}
