package aggregate

import (
	"context"
	"testing"

	"github.com/trackpulse/trackpulse/internal/core"
)

func TestFilterDropsMatchingItems(t *testing.T) {
	filter, err := NewFilter(`source == "noisy"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	kept := filter.Apply(context.Background(), []core.RawItem{
		{Title: "a", URL: "https://x/1", SourceName: "noisy"},
		{Title: "b", URL: "https://x/2", SourceName: "quiet"},
	})
	if len(kept) != 1 || kept[0].SourceName != "quiet" {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
}

func TestFilterKeepsItemOnRuleError(t *testing.T) {
	// References a key absent from the env; evaluation errors at runtime.
	filter, err := NewFilter(`missing_field == "x"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	kept := filter.Apply(context.Background(), []core.RawItem{
		{Title: "a", URL: "https://x/1"},
	})
	if len(kept) != 1 {
		t.Fatal("rule error must keep the item, not drop it")
	}
}

func TestFilterKeepsItemOnNonBoolResult(t *testing.T) {
	filter, err := NewFilter(`title.length`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	kept := filter.Apply(context.Background(), []core.RawItem{
		{Title: "abc", URL: "https://x/1"},
	})
	if len(kept) != 1 {
		t.Fatal("non-bool rule result must keep the item")
	}
}

func TestNewFilterAcceptsAllEnvFields(t *testing.T) {
	// Every field the rule environment exposes must be referenceable at
	// compile time; compilation is untyped, the env is bound per candidate.
	rules := []string{
		`title.value == "a"`,
		`title.length > 3`,
		`snippet.value == ""`,
		`snippet.length == 0`,
		`url startsWith "https://"`,
		`source == "noisy"`,
		`published_at.Year() < 2020`,
	}
	for _, rule := range rules {
		if _, err := NewFilter(rule); err != nil {
			t.Errorf("rule %q failed to compile: %v", rule, err)
		}
	}

	filter, err := NewFilter(`source == "noisy" && title.length > 1`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	kept := filter.Apply(context.Background(), []core.RawItem{
		{Title: "ab", URL: "https://x/1", SourceName: "noisy"},
		{Title: "cd", URL: "https://x/2", SourceName: "calm"},
	})
	if len(kept) != 1 || kept[0].SourceName != "calm" {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
}

func TestNewFilterRejectsEmptyAndInvalidRules(t *testing.T) {
	if _, err := NewFilter(""); err == nil {
		t.Error("expected error for empty rule")
	}
	if _, err := NewFilter(`title.length <`); err == nil {
		t.Error("expected error for invalid rule")
	}
}
