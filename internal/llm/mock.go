package llm

import (
	"context"
	"sync"
)

// MockLLM is a deterministic LLM implementation for testing.
// It records every prompt and returns a fixed response or error.
type MockLLM struct {
	// Response is the fixed text returned by Generate.
	Response string

	// Responses, if non-empty, are returned in order, one per call,
	// repeating the last entry once exhausted.
	Responses []string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	mu      sync.Mutex
	prompts []string
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// Generate returns the configured response and records the prompt.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)

	if m.Error != nil {
		return "", m.Error
	}
	if len(m.Responses) > 0 {
		i := len(m.prompts) - 1
		if i >= len(m.Responses) {
			i = len(m.Responses) - 1
		}
		return m.Responses[i], nil
	}
	return m.Response, nil
}

// Calls returns the number of Generate invocations so far.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none were made.
func (m *MockLLM) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

var _ LLM = (*MockLLM)(nil)
