package enrich

import (
	"testing"

	"github.com/trackpulse/trackpulse/internal/core"
)

func TestClassifierRoutesByKeyword(t *testing.T) {
	classifier := NewClassifier()

	cases := []struct {
		name      string
		primary   string
		secondary string
		want      core.Track
	}{
		{"monitoring", "Monitoring LLM latency in production", "", core.TrackAIOps},
		{"retrieval", "Better retrieval for your RAG stack", "", core.TrackAIOps},
		{"finetuning", "A gentle intro to fine-tuning", "with LoRA adapters", core.TrackSFTRL},
		{"rlhf", "", "we trained a reward model with RLHF", core.TrackSFTRL},
		{"benchmark", "A new benchmark for agents", "", core.TrackEvals},
		{"ablation", "What our ablation study revealed", "", core.TrackExperiments},
		{"no match", "cooking pasta at home", "a family recipe", core.TrackAIOps},
		{"case insensitive", "DEPLOYMENT checklist", "", core.TrackAIOps},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.Classify(tc.primary, tc.secondary); got != tc.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tc.primary, tc.secondary, got, tc.want)
			}
		})
	}
}

func TestClassifierFirstMatchWins(t *testing.T) {
	classifier := NewClassifier()
	// Mentions both deployment (aiops) and fine-tuning (sft-rl); aiops is
	// evaluated first and must win.
	got := classifier.Classify("Deployment tips for fine-tuned models", "")
	if got != core.TrackAIOps {
		t.Errorf("expected aiops to take priority, got %v", got)
	}
}

func TestClassifierIsPure(t *testing.T) {
	classifier := NewClassifier()
	first := classifier.Classify("evaluating agents", "benchmark results")
	for i := 0; i < 5; i++ {
		if got := classifier.Classify("evaluating agents", "benchmark results"); got != first {
			t.Fatalf("classification changed between calls: %v vs %v", first, got)
		}
	}
}

func TestClassifierKeywordOverrides(t *testing.T) {
	classifier := NewClassifierWithKeywords(map[core.Track][]string{
		core.TrackEvals: {"scorecard"},
	})
	if got := classifier.Classify("our new scorecard", ""); got != core.TrackEvals {
		t.Errorf("override keyword not applied, got %v", got)
	}
	// Defaults stay in place for tracks without an override.
	if got := classifier.Classify("ablation study", ""); got != core.TrackExperiments {
		t.Errorf("default keywords lost, got %v", got)
	}
}
