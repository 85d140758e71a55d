package mock

import (
	"context"

	"github.com/trackpulse/trackpulse/internal/outputs/digest"
)

type Sender struct {
	Messages []digest.Message
	Err      error
}

func (s *Sender) Send(ctx context.Context, message digest.Message) error {
	_ = ctx
	if s.Err != nil {
		return s.Err
	}
	s.Messages = append(s.Messages, message)
	return nil
}
