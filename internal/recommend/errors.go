// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package recommend

import (
	"fmt"
	"time"
)

// SubmissionError means the task never started: the POST that creates
// the recommendation task failed, so no push channel was opened.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("recommendation task submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ChannelError means the push channel broke before a terminal status
// arrived: dial failure, a read error, an unexpected close, or a payload
// the client could not decode.
type ChannelError struct {
	Reason string
	Err    error
}

func (e *ChannelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recommendation channel error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("recommendation channel error: %s", e.Reason)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// TimeoutError means no terminal status for the task arrived within the
// waiting window. The task may still complete server-side; the result is
// simply no longer deliverable to this invocation.
type TimeoutError struct {
	TaskID  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("recommendation task %s timed out after %s", e.TaskID, e.Elapsed)
}

// TaskFailedError means the service reported the task as failed. Reason
// carries the server-provided text when present.
type TaskFailedError struct {
	TaskID string
	Reason string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("recommendation task %s failed: %s", e.TaskID, e.Reason)
}
