package aggregate

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/trackpulse/trackpulse/internal/core"
)

// Filter drops merged candidates matching a configured expression before they
// are sorted and capped. The rule language is expr; a rule that evaluates to
// true drops the item.
type Filter struct {
	rule    string
	program *vm.Program
}

// NewFilter compiles the drop rule. An empty rule is a configuration error;
// callers skip constructing a filter when none is configured.
func NewFilter(rule string) (*Filter, error) {
	if rule == "" {
		return nil, fmt.Errorf("filter rule is required")
	}
	// Untyped compile: the rule environment is the dynamic map built by
	// filterEnv per candidate.
	program, err := expr.Compile(rule)
	if err != nil {
		return nil, fmt.Errorf("compile filter rule: %w", err)
	}
	return &Filter{rule: rule, program: program}, nil
}

// Apply returns the candidates that survive the rule. A rule that errors or
// returns a non-bool for an item keeps that item: a bad rule degrades to a
// pass-through, it never empties the cycle.
func (f *Filter) Apply(ctx context.Context, candidates []core.RawItem) []core.RawItem {
	logger := core.LoggerFromContext(ctx)

	kept := make([]core.RawItem, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := expr.Run(f.program, filterEnv(candidate))
		if err != nil {
			logger.Warn("filter rule failed, keeping item", "url", candidate.URL, "error", err)
			kept = append(kept, candidate)
			continue
		}
		drop, ok := result.(bool)
		if !ok {
			logger.Warn("filter rule did not return bool, keeping item", "url", candidate.URL)
			kept = append(kept, candidate)
			continue
		}
		if !drop {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func filterEnv(candidate core.RawItem) map[string]interface{} {
	return map[string]interface{}{
		"title": map[string]interface{}{
			"value":  candidate.Title,
			"length": len(candidate.Title),
		},
		"snippet": map[string]interface{}{
			"value":  candidate.Snippet,
			"length": len(candidate.Snippet),
		},
		"url":          candidate.URL,
		"source":       candidate.SourceName,
		"published_at": candidate.PublishedAt,
	}
}
