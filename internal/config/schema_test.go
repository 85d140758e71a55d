package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trackpulse/trackpulse/internal/core"
)

const validPipelineYAML = `
pipeline:
  name: "LLM Ops Watch"
  refresh_interval: "45m"
  max_items: 20
  concurrency: 2
  filter: 'title.length == 0'
  sources:
    - name: "Example Blog"
      url: "https://example.com/feed.xml"
    - url: "https://blog.example.org/rss"
  tracks:
    - track: "evals"
      keywords: ["benchmark", "leaderboard"]
  digest:
    to: "team@example.com"
    from: "noreply@example.com"
    subject: "Daily tracks"
`

func TestParseValidPipeline(t *testing.T) {
	var doc Document
	if err := yaml.Unmarshal([]byte(validPipelineYAML), &doc); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Document validation failed: %v", err)
	}

	if doc.Pipeline.Name != "LLM Ops Watch" {
		t.Errorf("unexpected name %q", doc.Pipeline.Name)
	}
	if got := doc.Interval(); got != 45*time.Minute {
		t.Errorf("Interval() = %v, expected 45m", got)
	}
	sources := doc.Sources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name != "Example Blog" || sources[0].URL != "https://example.com/feed.xml" {
		t.Errorf("unexpected first source %+v", sources[0])
	}
	if sources[1].Name != "" {
		t.Errorf("second source should carry no name, got %q", sources[1].Name)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackpulse.yaml")
	if err := os.WriteFile(path, []byte(validPipelineYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Pipeline.MaxItems != 20 {
		t.Errorf("max_items = %d, expected 20", doc.Pipeline.MaxItems)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "pipeline:\n  sources:\n    - url: \"https://example.com/feed\"\n",
			wantErr: "name is required",
		},
		{
			name:    "no sources",
			yaml:    "pipeline:\n  name: \"x\"\n",
			wantErr: "at least one source",
		},
		{
			name:    "source without url",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - name: \"a\"\n",
			wantErr: "url is required",
		},
		{
			name:    "source with bad scheme",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - url: \"ftp://example.com/feed\"\n",
			wantErr: "invalid url",
		},
		{
			name:    "bad interval",
			yaml:    "pipeline:\n  name: \"x\"\n  refresh_interval: \"soon\"\n  sources:\n    - url: \"https://example.com/feed\"\n",
			wantErr: "refresh_interval",
		},
		{
			name:    "negative max_items",
			yaml:    "pipeline:\n  name: \"x\"\n  max_items: -1\n  sources:\n    - url: \"https://example.com/feed\"\n",
			wantErr: "max_items",
		},
		{
			name:    "unknown track",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - url: \"https://example.com/feed\"\n  tracks:\n    - track: \"misc\"\n      keywords: [\"a\"]\n",
			wantErr: "unknown track",
		},
		{
			name:    "track without keywords",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - url: \"https://example.com/feed\"\n  tracks:\n    - track: \"evals\"\n",
			wantErr: "keyword",
		},
		{
			name:    "digest without subject",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - url: \"https://example.com/feed\"\n  digest:\n    to: \"a@example.com\"\n",
			wantErr: "digest",
		},
		{
			name:    "digest bad address",
			yaml:    "pipeline:\n  name: \"x\"\n  sources:\n    - url: \"https://example.com/feed\"\n  digest:\n    to: \"not-an-address\"\n    subject: \"s\"\n",
			wantErr: "invalid to address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var doc Document
			if err := yaml.Unmarshal([]byte(tc.yaml), &doc); err != nil {
				t.Fatalf("Failed to unmarshal YAML: %v", err)
			}
			err := doc.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestTrackOverrides(t *testing.T) {
	var doc Document
	if err := yaml.Unmarshal([]byte(validPipelineYAML), &doc); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}

	overrides := doc.TrackOverrides()
	if len(overrides) != 1 {
		t.Fatalf("expected one override, got %d", len(overrides))
	}
	keywords, ok := overrides[core.TrackEvals]
	if !ok {
		t.Fatal("expected an override for the evals track")
	}
	if len(keywords) != 2 || keywords[0] != "benchmark" {
		t.Errorf("unexpected keywords %v", keywords)
	}
}

func TestIntervalZeroWhenUnset(t *testing.T) {
	doc := Document{Pipeline: Pipeline{
		Name:    "x",
		Sources: []SourceConfig{{URL: "https://example.com/feed"}},
	}}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Document validation failed: %v", err)
	}
	if got := doc.Interval(); got != 0 {
		t.Errorf("Interval() = %v, expected 0 for unset", got)
	}
}
