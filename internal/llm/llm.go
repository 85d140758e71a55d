// Package llm defines the provider-neutral contract for chat-completion
// backends used by the summarizer.
package llm

import (
	"context"
	"errors"
)

// ErrQuotaExhausted reports that the provider rejected the request because the
// account is out of quota. Clients map provider-specific responses onto this
// sentinel so callers can trip the per-cycle circuit breaker without knowing
// the provider.
var ErrQuotaExhausted = errors.New("llm: quota exhausted")

type MessageRole string

const (
	RoleSystem MessageRole = "system"
	RoleUser   MessageRole = "user"
)

type Message struct {
	Role    MessageRole
	Content string
}

type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type ChatResponse struct {
	Content string
}

type Client interface {
	ChatCompletion(ctx context.Context, request ChatRequest) (ChatResponse, error)
}
