package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FeedSource identifies one syndication endpoint polled for items.
// Sources are defined at startup and never change during the process lifetime.
type FeedSource struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// RawItem is a single feed entry normalized across sources. It only exists
// during the refresh cycle that fetched it. URL may be empty; such items are
// dropped before enrichment.
type RawItem struct {
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	SourceName  string    `json:"source_name" yaml:"source_name"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Snippet     string    `json:"snippet" yaml:"snippet"`
}

// Track is the topical category assigned to an enriched item.
type Track string

const (
	TrackAIOps       Track = "aiops"
	TrackSFTRL       Track = "sft-rl"
	TrackEvals       Track = "evals"
	TrackExperiments Track = "experiments"
)

// EnrichedItem is the fully assembled record served to readers. Immutable once
// constructed; identity is ID, a pure function of URL, so the "same" article
// keeps its identity across refresh cycles even if its title or summary drift.
type EnrichedItem struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Track       Track     `json:"track" yaml:"track"`
	Level       string    `json:"level" yaml:"level"`
	Type        string    `json:"type" yaml:"type"`
	Summary     string    `json:"summary" yaml:"summary"`
	Content     string    `json:"content" yaml:"content"`
	URL         string    `json:"url" yaml:"url"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}

// Snapshot is the immutable result of one refresh cycle. Readers get a handle
// to the whole generation; it is never mutated after publication.
type Snapshot struct {
	UpdatedAt time.Time      `json:"updated_at" yaml:"updated_at"`
	Items     []EnrichedItem `json:"items" yaml:"items"`
}

// Fixed defaults for fields the pipeline does not vary per item.
const (
	DefaultLevel = "intermediate"
	DefaultType  = "article"
)

// ItemID derives a stable identifier from an item URL. Truncating the digest
// is an accepted collision risk, not a correctness requirement.
func ItemID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}
