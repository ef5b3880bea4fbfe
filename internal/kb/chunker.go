package kb

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxTokens is the target token budget per chunk.
	DefaultMaxTokens = 300
	// DefaultOverlap is the token budget shared between consecutive chunks.
	DefaultOverlap = 50
)

var sentenceRE = regexp.MustCompile(`(?m)(?U)[^.!?]+[.!?]`)

// SplitSentences splits text on sentence-ending punctuation. Trailing text
// without a terminator becomes a final sentence of its own.
func SplitSentences(text string) []string {
	locs := sentenceRE.FindAllStringIndex(text, -1)
	var sentences []string
	last := 0
	for _, loc := range locs {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// Chunk splits text into ordered, token-bounded chunks of whole sentences.
//
// Sentences accumulate into a buffer while its token count stays within
// maxTokens. When the next sentence would exceed the budget, the buffer is
// emitted (sentences joined by spaces) and then trimmed from the front until
// at most overlap tokens remain; accumulation continues from there, starting
// with the sentence that triggered the flush.
//
// Two boundary behaviors are intentional: a single sentence whose own token
// count exceeds maxTokens is still emitted as one over-budget chunk, and a
// sentence larger than the overlap budget leaves zero shared sentences
// between consecutive chunks.
//
// Chunk is a pure function: identical inputs produce identical boundaries.
func Chunk(text string, maxTokens, overlap int, counter TokenCounter) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, sentence := range sentences {
		tokens := counter.Count(sentence)
		if currentTokens+tokens <= maxTokens {
			current = append(current, sentence)
			currentTokens += tokens
			continue
		}

		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}
		for currentTokens > overlap && len(current) > 0 {
			currentTokens -= counter.Count(current[0])
			current = current[1:]
		}
		current = append(current, sentence)
		currentTokens = 0
		for _, s := range current {
			currentTokens += counter.Count(s)
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// ChunkDocument applies Chunk to a document with the default budgets.
// Empty documents yield no chunks.
func ChunkDocument(doc Document, counter TokenCounter) []string {
	if doc.Text == "" {
		return nil
	}
	return Chunk(doc.Text, DefaultMaxTokens, DefaultOverlap, counter)
}
