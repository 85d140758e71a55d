package mock

import (
	"context"
	"sync"

	"github.com/trackpulse/trackpulse/internal/llm"
)

// Client is a scripted llm.Client for tests. Responses are consumed in order;
// the last one repeats. A non-nil Err fails every call. ChatCompletion is
// safe for concurrent callers (the enrichment pool drives it from several
// goroutines); read or reset the exported fields only while no call is in
// flight.
type Client struct {
	Responses []llm.ChatResponse
	Err       error
	Calls     []llm.ChatRequest

	mu sync.Mutex
}

func (c *Client) ChatCompletion(ctx context.Context, request llm.ChatRequest) (llm.ChatResponse, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, request)
	if c.Err != nil {
		return llm.ChatResponse{}, c.Err
	}
	if len(c.Responses) == 0 {
		return llm.ChatResponse{}, nil
	}
	response := c.Responses[0]
	if len(c.Responses) > 1 {
		c.Responses = c.Responses[1:]
	}
	return response, nil
}
