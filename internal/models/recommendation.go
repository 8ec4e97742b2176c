// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package models

// Recommendation is a raw recommendation record as produced by the
// service's generation step: a book reference plus rationale and score.
type Recommendation struct {
	BookID string  `json:"bookId"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// RecommendationWithBook is the client-assembled form: the referenced
// book resolved to a full snapshot. Assembled per response, never cached.
type RecommendationWithBook struct {
	Book   Book    `json:"book"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// TaskHandle identifies a submitted recommendation task. The task id is
// opaque; it only correlates the submission with later push updates.
type TaskHandle struct {
	TaskID string `json:"taskId"`
	Status string `json:"status,omitempty"`
}
