package enrich

import "sync/atomic"

// Cycle carries the mutable state scoped to one refresh cycle. A fresh Cycle
// is created at the start of every cycle, so the AI-disable flag can never
// leak into the next one.
//
// The flag is a plain atomic boolean: two workers both observing quota
// exhaustion and both setting it is harmless, and one extra in-flight call
// before the flag propagates is acceptable.
type Cycle struct {
	aiDisabled atomic.Bool
}

func NewCycle() *Cycle {
	return &Cycle{}
}

// DisableAI trips the cycle-scoped circuit breaker: no further summarization
// calls are attempted for the remainder of this cycle.
func (c *Cycle) DisableAI() {
	c.aiDisabled.Store(true)
}

func (c *Cycle) AIDisabled() bool {
	return c.aiDisabled.Load()
}
