package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a deterministic Client for tests. It returns canned
// responses in FIFO order and records every prompt it receives.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// MockResponse is one canned reply. When Err is set the call fails with
// it instead of returning Text.
type MockResponse struct {
	Text string
	Err  error
}

func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock client: no responses queued")
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Text, nil
}

// AddResponse appends a canned reply to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}
