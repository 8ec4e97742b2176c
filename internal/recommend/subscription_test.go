// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package recommend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/kfwei/libro/internal/models"
)

// mockPushServer simulates the recommendation push channel. The script
// runs once per connection, after the subscribe message was read and
// handed to it.
type mockPushServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
}

func newMockPushServer(t *testing.T, script func(conn *websocket.Conn, sub subscribeRequest)) *mockPushServer {
	t.Helper()
	mock := &mockPushServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := mock.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub subscribeRequest
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("reading subscribe message: %v", err)
			return
		}
		if sub.Action != "subscribe" {
			t.Errorf("subscribe action: expected %q, got %q", "subscribe", sub.Action)
		}
		script(conn, sub)
	}))
	return mock
}

func (m *mockPushServer) url() string {
	return "ws" + strings.TrimPrefix(m.server.URL, "http")
}

func (m *mockPushServer) close() {
	m.server.Close()
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Errorf("write: %v", err)
	}
}

func encodeRecs(t *testing.T, recs []models.Recommendation) string {
	t.Helper()
	data, err := json.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal recommendations: %v", err)
	}
	return string(data)
}

func TestAwaitResultCompleted(t *testing.T) {
	want := []models.Recommendation{
		{BookID: "B2", Reason: "You liked space opera", Score: 0.91},
		{BookID: "B1", Reason: "Frequently borrowed together", Score: 0.77},
	}
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{
			TaskID:          sub.TaskID,
			Status:          "completed",
			Recommendations: encodeRecs(t, want),
		})
	})
	defer mock.close()

	recs, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	if err != nil {
		t.Fatalf("awaitResult: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	// Service ranking order preserved.
	if recs[0].BookID != "B2" || recs[1].BookID != "B1" {
		t.Errorf("order not preserved: %v", recs)
	}
	if recs[0].Score != 0.91 {
		t.Errorf("score: expected 0.91, got %v", recs[0].Score)
	}
}

func TestAwaitResultIgnoresUnrelatedTask(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		// An update for another task on the shared channel first.
		sendJSON(t, conn, resultMessage{
			TaskID: "T2",
			Status: "completed",
			// Would decode fine if it were wrongly consumed.
			Recommendations: `[{"bookId":"WRONG","reason":"x","score":1}]`,
		})
		sendJSON(t, conn, resultMessage{
			TaskID:          sub.TaskID,
			Status:          "completed",
			Recommendations: `[{"bookId":"B1","reason":"match","score":0.5}]`,
		})
	})
	defer mock.close()

	recs, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	if err != nil {
		t.Fatalf("awaitResult: %v", err)
	}
	if len(recs) != 1 || recs[0].BookID != "B1" {
		t.Errorf("expected the T1 result only, got %v", recs)
	}
}

func TestAwaitResultAcceptsMessageWithoutTaskID(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{
			Status:          "completed",
			Recommendations: `[{"bookId":"B3","reason":"r","score":0.2}]`,
		})
	})
	defer mock.close()

	recs, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	if err != nil {
		t.Fatalf("awaitResult: %v", err)
	}
	if len(recs) != 1 || recs[0].BookID != "B3" {
		t.Errorf("expected the unaddressed result, got %v", recs)
	}
}

func TestAwaitResultSkipsProgressUpdates(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{TaskID: sub.TaskID, Status: "processing"})
		sendJSON(t, conn, resultMessage{
			TaskID:          sub.TaskID,
			Status:          "completed",
			Recommendations: `[]`,
		})
	})
	defer mock.close()

	recs, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	if err != nil {
		t.Fatalf("awaitResult: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty result, got %v", recs)
	}
}

func TestAwaitResultTaskFailed(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{
			TaskID: sub.TaskID,
			Status: "failed",
			Error:  "model backend unavailable",
		})
	})
	defer mock.close()

	_, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	var failed *TaskFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *TaskFailedError, got %v", err)
	}
	if failed.Reason != "model backend unavailable" {
		t.Errorf("reason: got %q", failed.Reason)
	}
	if failed.TaskID != "T1" {
		t.Errorf("taskId: got %q", failed.TaskID)
	}
}

func TestAwaitResultTaskFailedDefaultReason(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{TaskID: sub.TaskID, Status: "failed"})
	})
	defer mock.close()

	_, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	var failed *TaskFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *TaskFailedError, got %v", err)
	}
	if failed.Reason == "" {
		t.Error("expected a fallback reason")
	}
}

func TestAwaitResultTimeout(t *testing.T) {
	done := make(chan struct{})
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		// Never send a terminal status; hold the connection open.
		<-done
	})
	defer mock.close()
	defer close(done)

	start := time.Now()
	_, err := awaitResult(context.Background(), mock.url(), "T1", 150*time.Millisecond)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %v", err)
	}
	if timeoutErr.TaskID != "T1" {
		t.Errorf("taskId: got %q", timeoutErr.TaskID)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, waited %v", elapsed)
	}
}

func TestAwaitResultMalformedPayload(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
			t.Errorf("write: %v", err)
		}
	})
	defer mock.close()

	_, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	var chanErr *ChannelError
	if !errors.As(err, &chanErr) {
		t.Fatalf("expected *ChannelError, got %v", err)
	}
}

func TestAwaitResultUndecodableRecommendations(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		sendJSON(t, conn, resultMessage{
			TaskID:          sub.TaskID,
			Status:          "completed",
			Recommendations: "not a list",
		})
	})
	defer mock.close()

	_, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	var chanErr *ChannelError
	if !errors.As(err, &chanErr) {
		t.Fatalf("expected *ChannelError, got %v", err)
	}
}

func TestAwaitResultServerClosesChannel(t *testing.T) {
	mock := newMockPushServer(t, func(conn *websocket.Conn, sub subscribeRequest) {
		conn.Close()
	})
	defer mock.close()

	_, err := awaitResult(context.Background(), mock.url(), "T1", 5*time.Second)
	var chanErr *ChannelError
	if !errors.As(err, &chanErr) {
		t.Fatalf("expected *ChannelError, got %v", err)
	}
}

func TestAwaitResultDialFailure(t *testing.T) {
	// A plain HTTP server rejects the upgrade.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no websocket here", http.StatusNotFound)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, err := awaitResult(context.Background(), wsURL, "T1", 2*time.Second)
	var chanErr *ChannelError
	if !errors.As(err, &chanErr) {
		t.Fatalf("expected *ChannelError, got %v", err)
	}
}
