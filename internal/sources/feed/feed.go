// Package feed defines the contract for fetching one syndication endpoint and
// normalizing its entries.
package feed

import (
	"context"

	"github.com/trackpulse/trackpulse/internal/core"
)

// FetchOptions controls fetch behavior.
type FetchOptions struct {
	Limit     int
	UserAgent string
}

// Fetcher retrieves and parses a single feed endpoint. Both the network round
// trip and document parsing happen under the fetcher's time limit; exceeding
// it is a failure, never a partial result.
type Fetcher interface {
	Fetch(ctx context.Context, source core.FeedSource, options FetchOptions) ([]core.RawItem, error)
}
