// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

/*
subscription.go - Realtime Subscription Channel

One websocket subscription per recommendation task: dial, send the
subscribe message for the task id, then read until a terminal status
for that task arrives or the waiting window closes. Every invocation
resolves to exactly one of completed, failed, timed out or channel
error, and the connection is closed before the outcome is returned.

The waiting window is measured from invocation start, so dial and
handshake time count against it. Messages for other task ids are
ignored; messages carrying no task id are treated as addressed to this
subscription, matching servers that push results without echoing the
id. A payload the client cannot decode is a channel error, not a
skippable message: after it the stream position is untrustworthy.
*/

package recommend

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/metrics"
	"github.com/kfwei/libro/internal/models"
)

// Terminal outcome labels for the subscription metric.
const (
	outcomeCompleted    = "completed"
	outcomeFailed       = "failed"
	outcomeTimeout      = "timeout"
	outcomeChannelError = "channel_error"
)

// subscribeRequest is the outbound message that scopes the subscription
// to one task.
type subscribeRequest struct {
	Action string `json:"action"`
	TaskID string `json:"taskId"`
}

// resultMessage is an inbound push update. Recommendations arrives as a
// JSON-encoded string, not an inline array; it is decoded separately.
type resultMessage struct {
	TaskID          string `json:"taskId"`
	Status          string `json:"status"`
	Recommendations string `json:"recommendations"`
	Error           string `json:"error"`
}

// awaitResult subscribes to the given task on the push channel and
// blocks until its terminal outcome.
func awaitResult(ctx context.Context, wsURL, taskID string, timeout time.Duration) ([]models.Recommendation, error) {
	start := time.Now()
	deadline := start.Add(timeout)

	subID := uuid.NewString()
	log := logging.With().
		Str("subscription", subID).
		Str("taskId", taskID).
		Logger()

	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		metrics.WSConnectsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &ChannelError{Reason: "dial failed", Err: err}
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	metrics.WSConnectsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	defer conn.Close()

	log.Debug().Str("url", wsURL).Msg("[recommend] Subscription channel open")

	if err := conn.WriteJSON(subscribeRequest{Action: "subscribe", TaskID: taskID}); err != nil {
		metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
		return nil, &ChannelError{Reason: "subscribe message failed", Err: err}
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
		return nil, &ChannelError{Reason: "setting read deadline failed", Err: err}
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if isDeadlineExceeded(err) {
				metrics.RecommendationOutcomes.WithLabelValues(outcomeTimeout).Inc()
				log.Warn().Dur("elapsed", time.Since(start)).Msg("[recommend] No terminal status before deadline")
				return nil, &TimeoutError{TaskID: taskID, Elapsed: time.Since(start)}
			}
			metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
			return nil, &ChannelError{Reason: "read failed", Err: err}
		}

		var msg resultMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
			return nil, &ChannelError{Reason: "undecodable push message", Err: err}
		}

		// Updates for other tasks on a shared channel are not ours.
		if msg.TaskID != "" && msg.TaskID != taskID {
			log.Debug().Str("otherTaskId", msg.TaskID).Msg("[recommend] Ignoring unrelated task update")
			continue
		}

		switch msg.Status {
		case "completed":
			recs, err := decodeRecommendations(msg.Recommendations)
			if err != nil {
				metrics.RecommendationOutcomes.WithLabelValues(outcomeChannelError).Inc()
				return nil, &ChannelError{Reason: "undecodable recommendation payload", Err: err}
			}
			metrics.RecommendationOutcomes.WithLabelValues(outcomeCompleted).Inc()
			log.Debug().Int("count", len(recs)).Msg("[recommend] Task completed")
			return recs, nil
		case "failed":
			reason := msg.Error
			if reason == "" {
				reason = "recommendation generation failed"
			}
			metrics.RecommendationOutcomes.WithLabelValues(outcomeFailed).Inc()
			return nil, &TaskFailedError{TaskID: taskID, Reason: reason}
		default:
			// Progress updates and other non-terminal statuses.
			continue
		}
	}
}

// decodeRecommendations unpacks the double-encoded result list.
func decodeRecommendations(encoded string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := json.Unmarshal([]byte(encoded), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// isDeadlineExceeded distinguishes the waiting window closing from the
// channel breaking.
func isDeadlineExceeded(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
