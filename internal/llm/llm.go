// Package llm provides a provider-agnostic text generation interface with a
// concrete OpenAI implementation and a deterministic mock for testing. The
// same Generate call serves translation, history summarization, and answer
// synthesis; only the prompt differs.
package llm

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds common configuration options for LLM providers.
type Config struct {
	// Model specifies the model identifier (e.g., "gpt-4.1")
	Model string

	// Temperature controls randomness (0.0 = deterministic)
	Temperature float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// Timeout bounds each request, retries included
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after a failed request
	MaxRetries int
}

// DefaultConfig returns sensible defaults for support-ticket answering.
func DefaultConfig() Config {
	return Config{
		Model:      "gpt-4.1",
		MaxTokens:  2000,
		Timeout:    60 * time.Second,
		MaxRetries: 2,
	}
}
