// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
client.go - Library Service REST Client

Core HTTP plumbing for the library service's request/response surface.
Endpoint methods live in catalog.go, notifications.go, auth.go and
social.go. Every call fails with *APIError on a non-success status; the
optional "error"/"message" body fields are captured for user-facing
message resolution.
*/

// Package api implements the request/response client for the library
// service, plus a circuit-breaker wrapper around it.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kfwei/libro/internal/metrics"
	"github.com/kfwei/libro/internal/models"
)

// Client defines the library service operations consumed by the rest of
// the module. Both HTTPClient and BreakerClient implement it.
type Client interface {
	// Catalog
	GetBooks(ctx context.Context) ([]models.Book, error)
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
	BorrowBook(ctx context.Context, bookID string) error
	ReturnBook(ctx context.Context, bookID string) error
	AddBook(ctx context.Context, book *models.Book) error
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	GetStats(ctx context.Context) (*models.Stats, error)

	// Borrow history
	GetCurrentBorrowings(ctx context.Context) ([]models.BorrowRecord, error)
	GetUserHistory(ctx context.Context) ([]models.BorrowRecord, error)

	// Notifications
	GetNotifications(ctx context.Context, opts NotificationQuery) (*models.NotificationPage, error)
	GetUnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) (int, error)
	ClearNotifications(ctx context.Context) (int, error)

	// Recommendations
	SubmitRecommendationTask(ctx context.Context) (*models.TaskHandle, error)
	GetRelatedRecommendations(ctx context.Context, bookID string) ([]models.RecommendationWithBook, error)

	// Ratings and reviews
	RateBook(ctx context.Context, bookID string, rating int) (*models.BookRating, error)
	GetBookRating(ctx context.Context, bookID string) (*models.BookRating, error)
	AddReview(ctx context.Context, bookID, text string) (int64, error)
	GetBookReviews(ctx context.Context, bookID string) ([]models.BookReview, error)
	UpdateReview(ctx context.Context, reviewID int64, text string) error
	DeleteReview(ctx context.Context, reviewID int64) error

	// Session endpoints (the handshake itself is the caller's concern)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*models.User, error)
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClient provides access to the library service REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Options tunes the HTTP client.
type Options struct {
	// Timeout bounds each request. Default: 30s.
	Timeout time.Duration

	// RateLimit is the sustained outbound request rate per second.
	// Default: 10.
	RateLimit float64

	// RateBurst is the burst size. Default: 20.
	RateBurst int
}

// NewHTTPClient creates a new library service client.
//
// baseURL is the API root, e.g. http://localhost:7070/api.
func NewHTTPClient(baseURL string, opts Options) *HTTPClient {
	baseURL = strings.TrimSuffix(baseURL, "/")

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}

	// The service authenticates with a session cookie set on login; the
	// jar replays it on every later call. New() never fails with a nil
	// PublicSuffixList.
	jar, _ := cookiejar.New(nil)

	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
	}
}

// do performs one request against the service. A nil body sends no
// payload; otherwise the body is JSON-encoded. The response body is
// decoded into out when out is non-nil and the status is 2xx.
func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit wait: %w", endpoint, err)
	}

	start := time.Now()
	err := c.doOnce(ctx, method, endpoint, body, out)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return err
	}
	metrics.APIRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	return nil
}

func (c *HTTPClient) doOnce(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s request encoding failed: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(endpoint, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// decodeAPIError reads an error response into an *APIError. Bodies that
// are not JSON still produce a usable error carrying the status code.
func decodeAPIError(endpoint string, resp *http.Response) error {
	apiErr := &APIError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.ErrText = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}
