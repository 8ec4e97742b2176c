// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package models

// BookRating is the aggregate rating for one book, with the caller's own
// rating when the service knows it.
type BookRating struct {
	BookID        string  `json:"bookId"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
	UserRating    *int    `json:"userRating,omitempty"`
}

// BookReview is a free-text review attached to a book.
type BookReview struct {
	ID         int64   `json:"id"`
	UserID     string  `json:"userId"`
	UserName   string  `json:"userName"`
	BookID     string  `json:"bookId"`
	BookTitle  string  `json:"bookTitle"`
	ReviewText string  `json:"reviewText"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt,omitempty"`
}
