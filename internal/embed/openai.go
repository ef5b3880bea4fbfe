package embed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config holds configuration for the OpenAI embedder.
type Config struct {
	Model      string
	Dimension  int
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig returns the embedding defaults the corpus is indexed with.
func DefaultConfig() Config {
	return Config{
		Model:      "text-embedding-3-small",
		Dimension:  1536,
		Timeout:    30 * time.Second,
		MaxRetries: 2,
	}
}

// OpenAIEmbedder implements the Embedder interface using OpenAI's API
type OpenAIEmbedder struct {
	client openai.Client
	config Config
}

// NewOpenAIEmbedder creates a new OpenAI embedder instance
func NewOpenAIEmbedder(config Config) (*OpenAIEmbedder, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(config.MaxRetries),
	)

	return &OpenAIEmbedder{
		client: client,
		config: config,
	}, nil
}

// Model returns the embedding model identifier
func (e *OpenAIEmbedder) Model() string {
	return e.config.Model
}

// Dimension returns the embedding vector dimension
func (e *OpenAIEmbedder) Dimension() int {
	return e.config.Dimension
}

// Embed generates embeddings for the provided texts using OpenAI's API.
// Per-input ordering in the output matches the input slice.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([]Record, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model:          e.config.Model,
		Dimensions:     openai.Int(int64(e.config.Dimension)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	records := make([]Record, len(resp.Data))
	for i, data := range resp.Data {
		// Convert []float64 to []float32
		embedding := make([]float32, len(data.Embedding))
		for j, val := range data.Embedding {
			embedding[j] = float32(val)
		}

		records[i] = Record{
			Text:      texts[int(data.Index)],
			Embedding: embedding,
			Index:     int(data.Index),
			Model:     e.config.Model,
		}
	}

	return records, nil
}

var _ Embedder = (*OpenAIEmbedder)(nil)
