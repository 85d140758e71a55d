// Package cache holds the single most-recent result of a refresh cycle.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/trackpulse/trackpulse/internal/core"
)

// Store keeps one Snapshot behind an atomic pointer. The refresh cycle is the
// sole writer and replaces the snapshot wholesale; any number of concurrent
// readers take an immutable handle to the current generation and can never
// observe a partially built list.
type Store struct {
	current atomic.Pointer[core.Snapshot]
}

func New() *Store {
	store := &Store{}
	// Present from process start; zero UpdatedAt means no cycle has run yet.
	store.current.Store(&core.Snapshot{Items: []core.EnrichedItem{}})
	return store
}

// Current returns the latest published snapshot. Callers must treat it as
// read-only.
func (s *Store) Current() *core.Snapshot {
	return s.current.Load()
}

// Publish replaces the snapshot in one atomic swap.
func (s *Store) Publish(items []core.EnrichedItem, updatedAt time.Time) *core.Snapshot {
	if items == nil {
		items = []core.EnrichedItem{}
	}
	snapshot := &core.Snapshot{UpdatedAt: updatedAt, Items: items}
	s.current.Store(snapshot)
	return snapshot
}
