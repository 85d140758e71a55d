// Package digest turns a published snapshot into an HTML email grouped by
// track and hands it to a Sender.
package digest

import "context"

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, message Message) error
}
