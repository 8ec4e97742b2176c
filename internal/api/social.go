// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kfwei/libro/internal/models"
)

// RateBook submits or updates the caller's rating for a book and returns
// the refreshed aggregate.
func (c *HTTPClient) RateBook(ctx context.Context, bookID string, rating int) (*models.BookRating, error) {
	body := map[string]any{"bookId": bookID, "rating": rating}
	var resp struct {
		Success       bool    `json:"success"`
		AverageRating float64 `json:"averageRating"`
		RatingCount   int     `json:"ratingCount"`
	}
	if err := c.do(ctx, http.MethodPost, "/ratings/rate", body, &resp); err != nil {
		return nil, err
	}
	return &models.BookRating{
		BookID:        bookID,
		AverageRating: resp.AverageRating,
		RatingCount:   resp.RatingCount,
	}, nil
}

// GetBookRating retrieves a book's rating aggregate, including the
// caller's own rating when present.
func (c *HTTPClient) GetBookRating(ctx context.Context, bookID string) (*models.BookRating, error) {
	var resp struct {
		Success       bool    `json:"success"`
		AverageRating float64 `json:"averageRating"`
		RatingCount   int     `json:"ratingCount"`
		UserRating    *int    `json:"userRating"`
	}
	endpoint := "/ratings/book?bookId=" + url.QueryEscape(bookID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &models.BookRating{
		BookID:        bookID,
		AverageRating: resp.AverageRating,
		RatingCount:   resp.RatingCount,
		UserRating:    resp.UserRating,
	}, nil
}

// AddReview attaches a review to a book and returns the new review id.
func (c *HTTPClient) AddReview(ctx context.Context, bookID, text string) (int64, error) {
	body := map[string]string{"bookId": bookID, "reviewText": text}
	var resp struct {
		Success  bool  `json:"success"`
		ReviewID int64 `json:"reviewId"`
	}
	if err := c.do(ctx, http.MethodPost, "/reviews/add", body, &resp); err != nil {
		return 0, err
	}
	return resp.ReviewID, nil
}

// GetBookReviews retrieves all reviews for a book.
func (c *HTTPClient) GetBookReviews(ctx context.Context, bookID string) ([]models.BookReview, error) {
	var resp struct {
		Success bool                `json:"success"`
		Reviews []models.BookReview `json:"reviews"`
	}
	endpoint := "/reviews/book?bookId=" + url.QueryEscape(bookID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// UpdateReview replaces the text of one of the caller's reviews.
func (c *HTTPClient) UpdateReview(ctx context.Context, reviewID int64, text string) error {
	body := map[string]any{"reviewId": reviewID, "reviewText": text}
	return c.do(ctx, http.MethodPut, "/reviews/update", body, nil)
}

// DeleteReview removes one of the caller's reviews.
func (c *HTTPClient) DeleteReview(ctx context.Context, reviewID int64) error {
	endpoint := "/reviews/delete?reviewId=" + strconv.FormatInt(reviewID, 10)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}
