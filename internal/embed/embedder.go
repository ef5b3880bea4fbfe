// Package embed converts text into fixed-dimension vectors via an external
// embedding API. Index construction runs one call per chunk through a
// bounded worker pool; retrieval runs one call per query.
package embed

import (
	"context"
	"errors"
)

// Common errors for embedding operations
var (
	ErrEmptyTexts      = errors.New("no texts provided for embedding")
	ErrMissingAPIKey   = errors.New("OPENAI_API_KEY environment variable not set")
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Record represents a single text embedding with metadata
type Record struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
	Model     string    `json:"model"`
}

// Embedder defines the interface for generating text embeddings
type Embedder interface {
	// Embed generates embeddings for the provided texts
	Embed(ctx context.Context, texts []string) ([]Record, error)

	// Model returns the embedding model identifier
	Model() string

	// Dimension returns the embedding vector dimension
	Dimension() int
}

// EmbedOne embeds a single text and returns its vector.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	records, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmbeddingFailed
	}
	return records[0].Embedding, nil
}
