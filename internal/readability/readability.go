// Package readability reduces an article page to a bounded plain-text
// excerpt for downstream summarization and classification.
package readability

import "context"

// Extractor fetches a URL and returns its main readable text. Extraction is
// best-effort: any network, parse, or timeout failure yields an empty string,
// never an error. Output is plain text, whitespace-normalized, and truncated
// to the implementation's length bound.
type Extractor interface {
	Extract(ctx context.Context, url string) string
}
