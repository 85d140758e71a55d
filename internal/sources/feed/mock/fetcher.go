package mock

import (
	"context"

	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/sources/feed"
)

type Fetcher struct {
	ItemsByURL map[string][]core.RawItem
	ErrByURL   map[string]error
}

func (f *Fetcher) Fetch(ctx context.Context, source core.FeedSource, options feed.FetchOptions) ([]core.RawItem, error) {
	_ = ctx
	if f.ErrByURL != nil {
		if err, ok := f.ErrByURL[source.URL]; ok {
			return nil, err
		}
	}
	items := f.ItemsByURL[source.URL]
	if options.Limit > 0 && len(items) > options.Limit {
		return items[:options.Limit], nil
	}
	return items, nil
}
