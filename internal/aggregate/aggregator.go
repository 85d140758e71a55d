// Package aggregate drives the refresh cycle: fetch all sources, merge and
// rank candidates, enrich them, and publish the result as one snapshot.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/trackpulse/trackpulse/internal/cache"
	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/enrich"
	"github.com/trackpulse/trackpulse/internal/sources/feed"
)

const defaultMaxItems = 30

// Notifier delivers a published snapshot to an optional output (e.g. the
// email digest). Delivery failures never affect the published snapshot.
type Notifier interface {
	Deliver(ctx context.Context, snapshot *core.Snapshot) error
}

type Aggregator struct {
	sources      []core.FeedSource
	fetcher      feed.Fetcher
	fetchOptions feed.FetchOptions
	orchestrator *enrich.Orchestrator
	filter       *Filter
	store        *cache.Store
	maxItems     int
	notifier     Notifier
	logger       *slog.Logger
}

type Config struct {
	Sources      []core.FeedSource
	FetchOptions feed.FetchOptions
	MaxItems     int
	// Filter and Notifier are optional.
	Filter   *Filter
	Notifier Notifier
}

func New(cfg Config, fetcher feed.Fetcher, orchestrator *enrich.Orchestrator, store *cache.Store, logger *slog.Logger) (*Aggregator, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("feed fetcher is required")
	}
	if orchestrator == nil {
		return nil, fmt.Errorf("enrichment orchestrator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &Aggregator{
		sources:      cfg.Sources,
		fetcher:      fetcher,
		fetchOptions: cfg.FetchOptions,
		orchestrator: orchestrator,
		filter:       cfg.Filter,
		store:        store,
		maxItems:     maxItems,
		notifier:     cfg.Notifier,
		logger:       logger,
	}, nil
}

// RunCycle executes one fetch → merge → enrich → publish pass. It never
// fails: sources that error contribute nothing, and a cycle that produced no
// items still publishes an empty snapshot so the timestamp signals freshness.
func (a *Aggregator) RunCycle(ctx context.Context) *core.Snapshot {
	cycleID := fmt.Sprintf("cycle-%d", time.Now().UnixNano())
	logger := a.logger.With("cycle_id", cycleID)
	ctx = core.WithLogger(core.WithCycleID(ctx, cycleID), logger)

	tracer := otel.Tracer("trackpulse/aggregate")
	ctx, span := tracer.Start(ctx, "aggregate.cycle")
	span.SetAttributes(
		attribute.String("cycle.id", cycleID),
		attribute.Int("cycle.sources", len(a.sources)),
	)
	defer span.End()

	// Fresh per-cycle state: the AI-disable flag must never survive a cycle.
	cycle := enrich.NewCycle()

	merged := a.fetchAll(ctx)
	candidates := dropEmptyURLs(merged)
	if a.filter != nil {
		candidates = a.filter.Apply(ctx, candidates)
	}
	sortByRecency(candidates)
	if len(candidates) > a.maxItems {
		candidates = candidates[:a.maxItems]
	}

	span.SetAttributes(attribute.Int("cycle.candidates", len(candidates)))
	logger.Info("enriching candidates", "count", len(candidates))

	items := a.orchestrator.Enrich(ctx, cycle, candidates)
	sortItemsByRecency(items)

	snapshot := a.store.Publish(items, time.Now().UTC())
	span.SetAttributes(attribute.Int("cycle.published", len(snapshot.Items)))
	logger.Info("snapshot published", "items", len(snapshot.Items), "updated_at", snapshot.UpdatedAt)

	if a.notifier != nil && len(snapshot.Items) > 0 {
		if err := a.notifier.Deliver(ctx, snapshot); err != nil {
			logger.Error("snapshot delivery failed", "error", err)
		}
	}
	return snapshot
}

// fetchAll fans out one fetch per source and waits for all of them. A failing
// source is logged and contributes zero items; it never aborts its siblings.
func (a *Aggregator) fetchAll(ctx context.Context) []core.RawItem {
	logger := core.LoggerFromContext(ctx)

	resultsBySource := make([][]core.RawItem, len(a.sources))
	var wg sync.WaitGroup
	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source core.FeedSource) {
			defer wg.Done()
			items, err := a.fetcher.Fetch(ctx, source, a.fetchOptions)
			if err != nil {
				logger.Warn("source unavailable", "source", source.URL, "error", err)
				return
			}
			resultsBySource[i] = items
		}(i, source)
	}
	wg.Wait()

	merged := []core.RawItem{}
	for _, items := range resultsBySource {
		merged = append(merged, items...)
	}
	return merged
}

func dropEmptyURLs(items []core.RawItem) []core.RawItem {
	kept := make([]core.RawItem, 0, len(items))
	for _, item := range items {
		if item.URL != "" {
			kept = append(kept, item)
		}
	}
	return kept
}

// sortByRecency orders newest first. Items with a missing or unparseable date
// carry a zero time and therefore sort last.
func sortByRecency(items []core.RawItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func sortItemsByRecency(items []core.EnrichedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
