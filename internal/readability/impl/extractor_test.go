package impl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func articlePage(body string) string {
	return `<!DOCTYPE html>
<html>
<head><title>t</title><script>var tracking = true;</script><style>p { color: red }</style></head>
<body>
<nav>Home | About | Subscribe</nav>
<article>` + body + `</article>
<footer>Copyright 2026</footer>
</body>
</html>`
}

func TestExtractStripsBoilerplate(t *testing.T) {
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("<p>" + content + "</p>")))
	}))
	defer server.Close()

	extractor := NewExtractor(5*time.Second, "")
	text := extractor.Extract(context.Background(), server.URL)
	if text == "" {
		t.Fatal("expected non-empty extraction")
	}
	if strings.Contains(text, "Subscribe") || strings.Contains(text, "Copyright") {
		t.Errorf("boilerplate leaked into extraction: %q", text)
	}
	if strings.Contains(text, "tracking") {
		t.Errorf("script text leaked into extraction: %q", text)
	}
	if !strings.Contains(text, "quick brown fox") {
		t.Errorf("article text missing from extraction: %q", text)
	}
}

func TestExtractNormalizesAndTruncates(t *testing.T) {
	long := strings.Repeat("word ", 5000) // well past the cap
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("<p>line\none\n\n   line\ttwo</p><p>" + long + "</p>")))
	}))
	defer server.Close()

	extractor := NewExtractor(5*time.Second, "")
	text := extractor.Extract(context.Background(), server.URL)
	if strings.Contains(text, "\n") || strings.Contains(text, "\t") || strings.Contains(text, "  ") {
		t.Errorf("whitespace not normalized: %q", text[:100])
	}
	if len(text) > maxTextLen {
		t.Errorf("extraction exceeds length bound: %d > %d", len(text), maxTextLen)
	}
}

func TestExtractFallsBackToBodyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>short page with no article element</p></body></html>"))
	}))
	defer server.Close()

	extractor := NewExtractor(5*time.Second, "")
	text := extractor.Extract(context.Background(), server.URL)
	if !strings.Contains(text, "short page") {
		t.Errorf("body fallback missing: %q", text)
	}
}

func TestExtractReturnsEmptyOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	extractor := NewExtractor(5*time.Second, "")
	if text := extractor.Extract(context.Background(), server.URL); text != "" {
		t.Errorf("expected empty string on http failure, got %q", text)
	}
	if text := extractor.Extract(context.Background(), "http://127.0.0.1:0/unreachable"); text != "" {
		t.Errorf("expected empty string on transport failure, got %q", text)
	}
}
