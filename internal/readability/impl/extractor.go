package impl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trackpulse/trackpulse/internal/core"
	"github.com/trackpulse/trackpulse/internal/retry"
)

const (
	// maxTextLen bounds the excerpt handed to the summarizer and classifier.
	maxTextLen  = 12000
	maxBodySize = 5 << 20 // 5 MiB
)

// boilerplateSelector matches chrome we strip before reading the page.
const boilerplateSelector = "script, style, noscript, template, iframe, nav, header, footer, aside, form"

// contentSelectors are tried in order; the first one with a meaningful amount
// of text wins. Body text is the raw fallback.
var contentSelectors = []string{"article", "main", "[role=main]", "#content", ".post-content", ".entry-content"}

type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = "trackpulse/0.1"
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract fetches the page and reduces it to readable text. Empty string
// signals failure; callers treat that as "no enrichment available".
func (e *Extractor) Extract(ctx context.Context, url string) string {
	logger := core.LoggerFromContext(ctx)

	page, err := e.fetch(ctx, url)
	if err != nil {
		logger.Warn("page fetch failed", "url", url, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		logger.Warn("page parse failed", "url", url, "error", err)
		return ""
	}

	return truncate(readableText(doc), maxTextLen)
}

func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	var page string
	err := retry.Do(ctx, retry.Config{Attempts: 2, BaseDelay: 200 * time.Millisecond}, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", e.userAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("status %s", resp.Status)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return err
		}
		page = string(body)
		return nil
	})
	return page, err
}

// readableText strips boilerplate and picks the densest content region. The
// heuristic is deliberately loose; fidelity is not contractual.
func readableText(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	for _, selector := range contentSelectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		if text := collapseWhitespace(selection.First().Text()); len(text) >= 200 {
			return text
		}
	}
	return collapseWhitespace(doc.Find("body").Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
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
