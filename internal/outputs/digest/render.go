package digest

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/trackpulse/trackpulse/internal/core"
)

var trackHeadings = map[core.Track]string{
	core.TrackAIOps:       "AIOps",
	core.TrackSFTRL:       "SFT & RL",
	core.TrackEvals:       "Evals",
	core.TrackExperiments: "Experiments",
}

// trackOrder fixes the section order of the digest.
var trackOrder = []core.Track{
	core.TrackAIOps,
	core.TrackSFTRL,
	core.TrackEvals,
	core.TrackExperiments,
}

type Renderer struct {
	converter goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		converter: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render produces the HTML body of a digest email for one snapshot. Tracks
// with no items are omitted.
func (r *Renderer) Render(snapshot *core.Snapshot) (string, error) {
	if snapshot == nil {
		return "", fmt.Errorf("snapshot is required")
	}

	markdown := buildMarkdown(snapshot)
	var buf bytes.Buffer
	if err := r.converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

func buildMarkdown(snapshot *core.Snapshot) string {
	var b strings.Builder

	b.WriteString("# Track digest\n\n")
	if !snapshot.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "_Updated %s._\n\n", snapshot.UpdatedAt.Format(time.RFC1123))
	}
	if len(snapshot.Items) == 0 {
		b.WriteString("No items in this cycle.\n")
		return b.String()
	}

	byTrack := make(map[core.Track][]core.EnrichedItem)
	for _, item := range snapshot.Items {
		byTrack[item.Track] = append(byTrack[item.Track], item)
	}

	for _, track := range trackOrder {
		items := byTrack[track]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", trackHeadings[track])
		for _, item := range items {
			fmt.Fprintf(&b, "- [%s](%s)", item.Title, item.URL)
			if summary := strings.TrimSpace(item.Summary); summary != "" {
				fmt.Fprintf(&b, ": %s", summary)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
