package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/trackpulse/trackpulse/internal/llm"
)

func TestChatCompletionConcurrentCallers(t *testing.T) {
	client := &Client{Responses: []llm.ChatResponse{{Content: "ok"}}}

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.ChatCompletion(context.Background(), llm.ChatRequest{Model: "m"})
		}()
	}
	wg.Wait()

	if len(client.Calls) != callers {
		t.Fatalf("expected %d recorded calls, got %d", callers, len(client.Calls))
	}
}
