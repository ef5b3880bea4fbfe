package kb

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures text length in tokens for chunk budgeting.
// Implementations must be deterministic: identical input always yields the
// same count, so chunk boundaries are reproducible.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts cl100k_base subword tokens, the encoding used by
// the OpenAI embedding models this corpus is indexed with.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter initializes the cl100k_base encoding.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the subword token count of text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// WordCounter approximates token counts by whitespace-separated words.
// Used in tests and as an offline fallback when the BPE ranks cannot load.
type WordCounter struct{}

// Count returns the number of whitespace-separated fields in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}
