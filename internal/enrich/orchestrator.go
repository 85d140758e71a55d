package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/history"
	"github.com/trackpulse/trackpulse/internal/readability"
)

const (
	defaultConcurrency = 3
	// maxExtractSummaryLen bounds extracted text reused as the display summary.
	maxExtractSummaryLen = 400
	fallbackSummary      = "New article"
)

// Orchestrator runs the per-item enrichment sequence (extract, summarize,
// classify, assemble) over a bounded worker pool. Concurrency stays small to
// avoid hammering origin servers and the summarization service.
type Orchestrator struct {
	extractor   readability.Extractor
	summarizer  *Summarizer
	classifier  *Classifier
	summaries   history.SummaryStore
	concurrency int
}

func NewOrchestrator(extractor readability.Extractor, summarizer *Summarizer, classifier *Classifier, concurrency int) *Orchestrator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Orchestrator{
		extractor:   extractor,
		summarizer:  summarizer,
		classifier:  classifier,
		concurrency: concurrency,
	}
}

// UseSummaryStore reuses stored AI summaries for items already enriched in an
// earlier cycle. A cache hit skips both page extraction and summarization.
func (o *Orchestrator) UseSummaryStore(store history.SummaryStore) {
	o.summaries = store
}

// Enrich processes candidates with bounded parallelism. A failure inside one
// item's enrichment never aborts siblings or the batch; the item falls back to
// whatever text is available. Result order is unspecified; the aggregator
// re-sorts before publishing.
func (o *Orchestrator) Enrich(ctx context.Context, cycle *Cycle, candidates []core.RawItem) []core.EnrichedItem {
	results := make([]core.EnrichedItem, len(candidates))

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, candidate core.RawItem) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = o.enrichOne(ctx, cycle, candidate)
		}(i, candidate)
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) enrichOne(ctx context.Context, cycle *Cycle, candidate core.RawItem) (item core.EnrichedItem) {
	logger := core.LoggerFromContext(ctx).With("url", candidate.URL)

	// A panic anywhere in the enrichment sequence downgrades this item to its
	// snippet-only form instead of taking down the pool.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("enrichment panicked, falling back to snippet", "panic", r)
			item = o.assemble(candidate, "", "")
		}
	}()

	if o.summaries != nil {
		cached, ok, err := o.summaries.Get(ctx, core.ItemID(candidate.URL))
		if err != nil {
			logger.Warn("summary lookup failed", "error", err)
		} else if ok {
			return o.assemble(candidate, "", cached)
		}
	}

	extracted := o.extractor.Extract(ctx, candidate.URL)

	summaryInput := extracted
	if summaryInput == "" {
		summaryInput = candidate.Snippet
	}
	aiSummary := o.summarizer.Summarize(ctx, cycle, candidate.Title, candidate.URL, summaryInput)

	if o.summaries != nil && aiSummary != "" {
		if err := o.summaries.Put(ctx, core.ItemID(candidate.URL), aiSummary); err != nil {
			logger.Warn("summary store write failed", "error", err)
		}
	}

	return o.assemble(candidate, extracted, aiSummary)
}

func (o *Orchestrator) assemble(candidate core.RawItem, extracted, aiSummary string) core.EnrichedItem {
	classText := firstNonEmpty(aiSummary, extracted, candidate.Snippet)
	summary := firstNonEmpty(aiSummary, truncate(extracted, maxExtractSummaryLen), candidate.Snippet, fallbackSummary)

	return core.EnrichedItem{
		ID:          core.ItemID(candidate.URL),
		Title:       candidate.Title,
		Track:       o.classifier.Classify(candidate.Title, classText),
		Level:       core.DefaultLevel,
		Type:        core.DefaultType,
		Summary:     summary,
		Content:     provenance(candidate),
		URL:         candidate.URL,
		PublishedAt: candidate.PublishedAt,
	}
}

func provenance(candidate core.RawItem) string {
	published := "unknown date"
	if !candidate.PublishedAt.IsZero() {
		published = candidate.PublishedAt.UTC().Format(time.DateOnly)
	}
	source := candidate.SourceName
	if source == "" {
		source = "unknown source"
	}
	return fmt.Sprintf("From %s, published %s.", source, published)
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
