// Package search narrows video feeds by free-text queries. The Provider
// interface keeps the feed pipeline independent of the matching engine; the
// default implementation matches against the store, but an external index
// can be swapped in without touching callers.
package search

import (
	"context"

	"github.com/google/uuid"
)

// Provider resolves a free-text query to the set of candidate video ids.
// An empty result set is a valid answer and must not be treated as an
// error; provider failures surface as errors so callers can degrade.
type Provider interface {
	Search(ctx context.Context, query string) ([]uuid.UUID, error)
}
