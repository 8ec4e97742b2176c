// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package recommend

import (
	"context"

	"github.com/kfwei/libro/internal/logging"
	"github.com/kfwei/libro/internal/models"
)

// assemble resolves each raw recommendation's book reference to a full
// snapshot, preserving input order. A record whose book cannot be
// fetched is dropped and logged; a partial list beats failing the whole
// response over one stale reference. The result is assembled per call,
// never cached.
func assemble(ctx context.Context, client Backend, recs []models.Recommendation) []models.RecommendationWithBook {
	out := make([]models.RecommendationWithBook, 0, len(recs))
	for i := range recs {
		book, err := client.GetBookByID(ctx, recs[i].BookID)
		if err != nil {
			logging.Warn().Err(err).
				Str("bookId", recs[i].BookID).
				Msg("[recommend] Dropping recommendation, book fetch failed")
			continue
		}
		out = append(out, models.RecommendationWithBook{
			Book:   *book,
			Reason: recs[i].Reason,
			Score:  recs[i].Score,
		})
	}
	return out
}
