package impl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/retry"
	"github.com/trackpulse/trackpulse/internal/sources/feed"
)

const placeholderTitle = "Untitled"

type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Fetcher{parser: parser, timeout: timeout}
}

func (f *Fetcher) Fetch(ctx context.Context, source core.FeedSource, options feed.FetchOptions) ([]core.RawItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var parsed *gofeed.Feed
	err := retry.Do(ctx, retry.Config{Attempts: 2, BaseDelay: 200 * time.Millisecond}, func() error {
		result, err := f.parser.ParseURLWithContext(source.URL, ctx)
		if err != nil {
			return err
		}
		parsed = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", source.URL, err)
	}

	sourceName := source.Name
	if sourceName == "" {
		sourceName = strings.TrimSpace(parsed.Title)
	}

	limit := options.Limit
	if limit <= 0 {
		limit = len(parsed.Items)
	}

	items := make([]core.RawItem, 0, limit)
	for _, entry := range parsed.Items {
		if len(items) >= limit {
			break
		}
		items = append(items, mapEntry(entry, sourceName))
	}
	return items, nil
}

func mapEntry(entry *gofeed.Item, sourceName string) core.RawItem {
	item := core.RawItem{
		Title:      strings.TrimSpace(entry.Title),
		URL:        canonicalURL(entry),
		SourceName: sourceName,
		Snippet:    firstSnippet(entry.Description, entry.Content),
	}
	if item.Title == "" {
		item.Title = placeholderTitle
	}
	if entry.PublishedParsed != nil {
		item.PublishedAt = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		item.PublishedAt = entry.UpdatedParsed.UTC()
	}
	return item
}

// canonicalURL prefers the entry's link, falling back to a guid that is itself
// a URL. Anything else is unresolvable and left empty; the aggregator drops
// such items.
func canonicalURL(entry *gofeed.Item) string {
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	guid := strings.TrimSpace(entry.GUID)
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return guid
	}
	return ""
}

func firstSnippet(candidates ...string) string {
	for _, candidate := range candidates {
		if collapsed := collapseWhitespace(candidate); collapsed != "" {
			return collapsed
		}
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
