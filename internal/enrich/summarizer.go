package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/llm"
)

const summarySystemPrompt = "You summarize technical articles about machine learning systems. " +
	"Write two or three plain sentences covering what the article says and why it matters to a practitioner. " +
	"No preamble, no markdown headings."

const (
	defaultSummaryTimeout = 30 * time.Second
	// maxExcerptLen bounds the article text included in the prompt.
	maxExcerptLen    = 6000
	summaryMaxTokens = 320
)

// Summarizer requests an AI summary for one item. It never returns an error:
// empty string means "no summary produced". It is a no-op when summarization
// is switched off, no client is configured, or the cycle's AI-disable flag is
// set.
type Summarizer struct {
	client  llm.Client
	model   string
	enabled bool
	timeout time.Duration
}

type SummarizerOptions struct {
	Model   string
	Enabled bool
	Timeout time.Duration
}

func NewSummarizer(client llm.Client, options SummarizerOptions) *Summarizer {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultSummaryTimeout
	}
	return &Summarizer{
		client:  client,
		model:   options.Model,
		enabled: options.Enabled && client != nil,
		timeout: timeout,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, cycle *Cycle, title, url, text string) string {
	if !s.enabled || cycle.AIDisabled() {
		return ""
	}

	logger := core.LoggerFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.ChatCompletion(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: summarySystemPrompt},
			{Role: llm.RoleUser, Content: buildPrompt(title, url, text)},
		},
		Temperature: 0.3,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrQuotaExhausted) {
			logger.Warn("summarization quota exhausted, disabling for remainder of cycle", "url", url)
			cycle.DisableAI()
			return ""
		}
		logger.Warn("summarization failed", "url", url, "error", err)
		return ""
	}

	return strings.TrimSpace(response.Content)
}

func buildPrompt(title, url, text string) string {
	return fmt.Sprintf("Title: %s\nURL: %s\n\nArticle text:\n%s", title, url, truncate(text, maxExcerptLen))
}
