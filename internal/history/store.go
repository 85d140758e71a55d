package history

import "context"

// SummaryStore persists AI summaries by item identifier so an item that
// reappears in a later cycle does not spend summarization quota again.
type SummaryStore interface {
	Get(ctx context.Context, id string) (string, bool, error)
	Put(ctx context.Context, id, summary string) error
	Close() error
}
