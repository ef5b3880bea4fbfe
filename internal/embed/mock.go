package embed

import (
	"context"
	"hash/fnv"
	"sync/atomic"
	"time"
)

// MockEmbedder is a deterministic embedder for testing. Vectors are derived
// from an FNV hash of the text unless an explicit vector is registered, so
// equal texts always embed identically.
type MockEmbedder struct {
	// Vectors maps exact texts to fixed vectors, overriding the hash.
	Vectors map[string][]float32

	// Err, if set, is returned by every Embed call.
	Err error

	// Delay, if set, sleeps before answering; used to shake out ordering
	// assumptions in concurrent batch embedding.
	Delay time.Duration

	// Dim is the vector dimension (default 8).
	Dim int

	calls atomic.Int64
}

// Embed returns one deterministic record per input text.
func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([]Record, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	records := make([]Record, len(texts))
	for i, text := range texts {
		records[i] = Record{
			Text:      text,
			Embedding: m.vector(text),
			Index:     i,
			Model:     m.Model(),
		}
	}
	return records, nil
}

// Model returns the mock model identifier.
func (m *MockEmbedder) Model() string { return "mock-embedding" }

// Dimension returns the configured vector dimension.
func (m *MockEmbedder) Dimension() int {
	if m.Dim > 0 {
		return m.Dim
	}
	return 8
}

// Calls returns how many Embed invocations have been made.
func (m *MockEmbedder) Calls() int { return int(m.calls.Load()) }

func (m *MockEmbedder) vector(text string) []float32 {
	if v, ok := m.Vectors[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	dim := m.Dimension()
	vec := make([]float32, dim)
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(seed%1000) / 1000
	}
	return vec
}

var _ Embedder = (*MockEmbedder)(nil)
