package history

import (
	"context"
	"fmt"
	"strings"

	"deskrag/internal/llm"
)

// MaxSummaryTurns caps how much history feeds the summary prompt.
const MaxSummaryTurns = 10

// Summarizer compresses a conversation history into a short context
// paragraph via one generation call. Nothing is cached between calls.
type Summarizer struct {
	llm llm.LLM
}

// NewSummarizer creates a summarizer backed by the given LLM.
func NewSummarizer(generator llm.LLM) *Summarizer {
	return &Summarizer{llm: generator}
}

// Summarize returns a condensed paragraph covering at most the last
// MaxSummaryTurns turns. Empty history returns "" without any external call.
func (s *Summarizer) Summarize(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return "", nil
	}

	if len(turns) > MaxSummaryTurns {
		turns = turns[len(turns)-MaxSummaryTurns:]
	}

	var convo strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&convo, "User: %s\nAssistant: %s\n", t.Question, t.Answer)
	}

	prompt := "Summarize this user-assistant conversation history for future context (finance-specific):\n\n" +
		convo.String()

	summary, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize history: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
