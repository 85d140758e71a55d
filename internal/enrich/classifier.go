package enrich

import (
	"strings"

	"github.com/trackpulse/trackpulse/internal/core"
)

// trackRule binds a track to the keywords that route to it. Rules are
// evaluated in order and the first match wins, so earlier tracks take
// priority when an item mentions several topics.
type trackRule struct {
	track    core.Track
	keywords []string
}

// defaultRules is heuristic configuration, not a frozen contract; only the
// first-match-wins ordering is. Callers may override keyword lists from
// config, keeping the same track order.
var defaultRules = []trackRule{
	{core.TrackAIOps, []string{
		"ops", "monitoring", "deployment", "deploy", "observability",
		"retrieval", "vector", "rag", "infrastructure", "serving", "inference",
	}},
	{core.TrackSFTRL, []string{
		"fine-tun", "finetun", "sft", "rlhf", "reinforcement", "reward model",
		"lora", "dpo", "post-training",
	}},
	{core.TrackEvals, []string{
		"eval", "benchmark", "leaderboard", "test set", "scoring", "grader",
	}},
	{core.TrackExperiments, []string{
		"experiment", "ablation", "a/b test", "hypothesis", "prototype",
	}},
}

// Classifier routes item text to a track by case-insensitive substring
// matching. Pure and deterministic: identical inputs always yield the same
// track; no keyword match defaults to AIOps.
type Classifier struct {
	rules []trackRule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewClassifierWithKeywords overrides the keyword list of each track that has
// an entry in overrides; tracks without an override keep their defaults.
func NewClassifierWithKeywords(overrides map[core.Track][]string) *Classifier {
	rules := make([]trackRule, len(defaultRules))
	copy(rules, defaultRules)
	for i, rule := range rules {
		if keywords, ok := overrides[rule.track]; ok && len(keywords) > 0 {
			rules[i].keywords = keywords
		}
	}
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(primaryText, secondaryText string) core.Track {
	haystack := strings.ToLower(primaryText + " " + secondaryText)
	for _, rule := range c.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, strings.ToLower(keyword)) {
				return rule.track
			}
		}
	}
	return core.TrackAIOps
}
