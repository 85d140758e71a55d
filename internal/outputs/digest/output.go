package digest

import (
	"context"
	"fmt"

	"github.com/trackpulse/trackpulse/internal/core"
)

// Output delivers a rendered digest after a cycle. It satisfies the
// aggregator's notifier hook.
type Output struct {
	sender   Sender
	renderer *Renderer
	to       string
	from     string
	subject  string
}

type OutputOptions struct {
	To      string
	From    string
	Subject string
}

func NewOutput(sender Sender, options OutputOptions) (*Output, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if options.To == "" {
		return nil, fmt.Errorf("digest recipient is required")
	}
	if options.Subject == "" {
		return nil, fmt.Errorf("digest subject is required")
	}
	return &Output{
		sender:   sender,
		renderer: NewRenderer(),
		to:       options.To,
		from:     options.From,
		subject:  options.Subject,
	}, nil
}

func (o *Output) Deliver(ctx context.Context, snapshot *core.Snapshot) error {
	body, err := o.renderer.Render(snapshot)
	if err != nil {
		return err
	}
	return o.sender.Send(ctx, Message{
		From:    o.from,
		To:      o.to,
		Subject: o.subject,
		Body:    body,
	})
}
