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
	"regexp"
	"strconv"

	"github.com/kfwei/libro/internal/models"
)

// GetBooks retrieves the full catalog.
func (c *HTTPClient) GetBooks(ctx context.Context) ([]models.Book, error) {
	var resp struct {
		Success bool          `json:"success"`
		Books   []models.Book `json:"books"`
	}
	if err := c.do(ctx, http.MethodGet, "/books", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Books, nil
}

// GetBookByID retrieves a single book.
func (c *HTTPClient) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	endpoint := "/books?id=" + url.QueryEscape(id)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// BorrowBook borrows a book for the authenticated user. The service is
// the source of truth for availability conflicts; a second borrow of an
// already-borrowed book fails here, not client-side.
func (c *HTTPClient) BorrowBook(ctx context.Context, bookID string) error {
	body := map[string]string{"bookId": bookID}
	return c.do(ctx, http.MethodPost, "/books/borrow", body, nil)
}

// ReturnBook returns a borrowed book.
func (c *HTTPClient) ReturnBook(ctx context.Context, bookID string) error {
	body := map[string]string{"bookId": bookID}
	return c.do(ctx, http.MethodPost, "/books/return", body, nil)
}

// AddBook creates a new catalog entry.
func (c *HTTPClient) AddBook(ctx context.Context, book *models.Book) error {
	return c.do(ctx, http.MethodPost, "/books/add", book, nil)
}

// UpdateBook updates a book's descriptive fields. Availability is not
// touched by updates.
func (c *HTTPClient) UpdateBook(ctx context.Context, book *models.Book) error {
	return c.do(ctx, http.MethodPut, "/books/update", book, nil)
}

// DeleteBook removes a catalog entry.
func (c *HTTPClient) DeleteBook(ctx context.Context, bookID string) error {
	body := map[string]string{"id": bookID}
	return c.do(ctx, http.MethodDelete, "/books/delete", body, nil)
}

// statsPattern extracts the three counters out of the service's display
// string, e.g. "Total: 5 books | Available: 2 | Borrowed: 3".
var statsPattern = regexp.MustCompile(`Total:\s*(\d+)\s*books?\s*\|\s*Available:\s*(\d+)\s*\|\s*Borrowed:\s*(\d+)`)

// GetStats retrieves the catalog aggregate. The service reports it as a
// display string, which is parsed here.
func (c *HTTPClient) GetStats(ctx context.Context) (*models.Stats, error) {
	var resp struct {
		Success    bool   `json:"success"`
		Statistics string `json:"statistics"`
	}
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &resp); err != nil {
		return nil, err
	}

	m := statsPattern.FindStringSubmatch(resp.Statistics)
	if m == nil {
		return nil, fmt.Errorf("unexpected statistics format: %q", resp.Statistics)
	}

	total, _ := strconv.Atoi(m[1])
	available, _ := strconv.Atoi(m[2])
	borrowed, _ := strconv.Atoi(m[3])
	return &models.Stats{
		TotalBooks:     total,
		AvailableBooks: available,
		BorrowedBooks:  borrowed,
	}, nil
}

// GetCurrentBorrowings retrieves the caller's active borrowings.
func (c *HTTPClient) GetCurrentBorrowings(ctx context.Context) ([]models.BorrowRecord, error) {
	var resp struct {
		Success bool                  `json:"success"`
		Current []models.BorrowRecord `json:"current"`
	}
	if err := c.do(ctx, http.MethodGet, "/history/current", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Current, nil
}

// GetUserHistory retrieves the caller's full borrow history.
func (c *HTTPClient) GetUserHistory(ctx context.Context) ([]models.BorrowRecord, error) {
	var resp struct {
		Success bool                  `json:"success"`
		History []models.BorrowRecord `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/history/user", nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// SubmitRecommendationTask starts asynchronous recommendation generation.
// The response only acknowledges that work began; the result arrives on
// the realtime channel correlated by task id.
func (c *HTTPClient) SubmitRecommendationTask(ctx context.Context) (*models.TaskHandle, error) {
	var resp struct {
		Success bool   `json:"success"`
		TaskID  string `json:"taskId"`
		Status  string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/recommendations/personal", nil, &resp); err != nil {
		return nil, err
	}
	if resp.TaskID == "" {
		return nil, fmt.Errorf("recommendation task response carried no task id")
	}
	return &models.TaskHandle{TaskID: resp.TaskID, Status: resp.Status}, nil
}

// GetRelatedRecommendations fetches recommendations related to one book.
// Unlike the personal flow this is plain request/response: the service
// generates inline and returns book-resolved records, so the call can
// take a while on a cold model.
func (c *HTTPClient) GetRelatedRecommendations(ctx context.Context, bookID string) ([]models.RecommendationWithBook, error) {
	var resp struct {
		Success         bool                            `json:"success"`
		Recommendations []models.RecommendationWithBook `json:"recommendations"`
	}
	endpoint := "/recommendations/related?bookId=" + url.QueryEscape(bookID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}
