package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trackpulse/trackpulse/internal/core"
)

// Document is the top-level structure of a trackpulse.yaml file. It carries
// the parts of the pipeline an operator shapes per deployment: which feeds to
// poll, how the result is bounded, track keyword overrides, an optional drop
// rule, and an optional digest output. Credentials and transport knobs come
// from the environment (see env.go).
type Document struct {
	Pipeline Pipeline `yaml:"pipeline"`
}

type Pipeline struct {
	Name string `yaml:"name"`
	// Sources lists the syndication endpoints polled each cycle.
	Sources []SourceConfig `yaml:"sources"`
	// RefreshInterval accepts extended durations ("30m", "2h", "1d").
	// The scheduler clamps it into its sane range.
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
	MaxItems        int    `yaml:"max_items,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty"`
	// PerSourceLimit caps how many entries one feed may contribute.
	PerSourceLimit int `yaml:"per_source_limit,omitempty"`
	// Filter is an optional expr drop rule evaluated over merged candidates.
	Filter string          `yaml:"filter,omitempty"`
	Tracks []TrackKeywords `yaml:"tracks,omitempty"`
	Digest *DigestOutput   `yaml:"digest,omitempty"`
}

type SourceConfig struct {
	Name string `yaml:"name,omitempty"`
	URL  string `yaml:"url"`
}

// TrackKeywords overrides the keyword list of one track. Priority order stays
// fixed; only the words are configurable.
type TrackKeywords struct {
	Track    string   `yaml:"track"`
	Keywords []string `yaml:"keywords"`
}

// DigestOutput configures the optional post-cycle email digest.
type DigestOutput struct {
	To      string `yaml:"to"`
	From    string `yaml:"from,omitempty"`
	Subject string `yaml:"subject"`
}

// Load reads and validates a pipeline document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pipeline document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) Validate() error {
	if d.Pipeline.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}
	if len(d.Pipeline.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	for i, source := range d.Pipeline.Sources {
		if source.URL == "" {
			return fmt.Errorf("source %d: url is required", i)
		}
		parsed, err := url.Parse(source.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("source %d: invalid url %q", i, source.URL)
		}
	}
	if d.Pipeline.RefreshInterval != "" {
		if _, err := parseDurationExtended(d.Pipeline.RefreshInterval); err != nil {
			return fmt.Errorf("refresh_interval: %w", err)
		}
	}
	if d.Pipeline.MaxItems < 0 {
		return fmt.Errorf("max_items must not be negative")
	}
	if d.Pipeline.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	for i, track := range d.Pipeline.Tracks {
		if _, err := parseTrack(track.Track); err != nil {
			return fmt.Errorf("tracks %d: %w", i, err)
		}
		if len(track.Keywords) == 0 {
			return fmt.Errorf("tracks %d: at least one keyword is required", i)
		}
	}
	if digest := d.Pipeline.Digest; digest != nil {
		if digest.To == "" || digest.Subject == "" {
			return fmt.Errorf("digest: 'to' and 'subject' are required")
		}
		if _, err := mail.ParseAddress(digest.To); err != nil {
			return fmt.Errorf("digest: invalid to address")
		}
		if digest.From != "" {
			if _, err := mail.ParseAddress(digest.From); err != nil {
				return fmt.Errorf("digest: invalid from address")
			}
		}
	}
	return nil
}

// Interval resolves the configured refresh interval; zero means "use the
// scheduler default".
func (d *Document) Interval() time.Duration {
	if d.Pipeline.RefreshInterval == "" {
		return 0
	}
	interval, err := parseDurationExtended(d.Pipeline.RefreshInterval)
	if err != nil {
		return 0
	}
	return interval
}

// Sources converts the configured endpoints into core sources.
func (d *Document) Sources() []core.FeedSource {
	sources := make([]core.FeedSource, 0, len(d.Pipeline.Sources))
	for _, source := range d.Pipeline.Sources {
		sources = append(sources, core.FeedSource{Name: source.Name, URL: source.URL})
	}
	return sources
}

// TrackOverrides maps the configured keyword overrides by track.
func (d *Document) TrackOverrides() map[core.Track][]string {
	if len(d.Pipeline.Tracks) == 0 {
		return nil
	}
	overrides := make(map[core.Track][]string, len(d.Pipeline.Tracks))
	for _, entry := range d.Pipeline.Tracks {
		track, err := parseTrack(entry.Track)
		if err != nil {
			continue
		}
		overrides[track] = entry.Keywords
	}
	return overrides
}

func parseTrack(name string) (core.Track, error) {
	switch core.Track(name) {
	case core.TrackAIOps, core.TrackSFTRL, core.TrackEvals, core.TrackExperiments:
		return core.Track(name), nil
	default:
		return "", fmt.Errorf("unknown track %q", name)
	}
}
