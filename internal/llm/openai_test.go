package llm

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestNewOpenAILLM_MissingAPIKey(t *testing.T) {
	originalKey := os.Getenv("OPENAI_API_KEY")
	defer os.Setenv("OPENAI_API_KEY", originalKey)
	os.Unsetenv("OPENAI_API_KEY")

	_, err := NewOpenAILLM(Config{Model: "gpt-4.1"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewOpenAILLM_MissingModel(t *testing.T) {
	_, err := NewOpenAILLM(Config{APIKey: "sk-test"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestOpenAILLM_EmptyPrompt(t *testing.T) {
	o, err := NewOpenAILLM(Config{Model: "gpt-4.1", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("failed to create LLM: %v", err)
	}
	if _, err := o.Generate(context.Background(), ""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty prompt, got %v", err)
	}
}

func TestMockLLM_RecordsPrompts(t *testing.T) {
	m := NewMockLLM("fixed")
	out, err := m.Generate(context.Background(), "hello")
	if err != nil || out != "fixed" {
		t.Fatalf("Generate = %q, %v", out, err)
	}
	if m.Calls() != 1 || m.LastPrompt() != "hello" {
		t.Errorf("calls=%d lastPrompt=%q", m.Calls(), m.LastPrompt())
	}
}

func TestMockLLM_SequencedResponses(t *testing.T) {
	m := &MockLLM{Responses: []string{"first", "second"}}
	for i, want := range []string{"first", "second", "second"} {
		got, err := m.Generate(context.Background(), "p")
		if err != nil || got != want {
			t.Errorf("call %d = %q, %v; want %q", i, got, err, want)
		}
	}
}
