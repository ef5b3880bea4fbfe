package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"deskrag/internal/embed"
)

// Common errors for Milvus operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrInsertFailed     = errors.New("failed to insert records")
	ErrSearchFailed     = errors.New("failed to search vectors")
)

// MilvusConfig holds configuration for a Milvus-backed chunk index.
type MilvusConfig struct {
	Address    string // Milvus server address (e.g., "localhost:19530")
	Collection string // Collection name, one per knowledge-base tier
	Dimension  int    // Vector dimension (e.g., 1536 for text-embedding-3-small)
}

// MilvusIndex implements Searcher against a Milvus collection using exact
// (FLAT) L2 search, matching the in-memory backend's semantics.
type MilvusIndex struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusIndex connects to Milvus and ensures the collection exists.
func NewMilvusIndex(ctx context.Context, config MilvusConfig) (*MilvusIndex, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	ix := &MilvusIndex{client: c, config: config}
	if err := ix.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return ix, nil
}

func (m *MilvusIndex) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.Collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: m.config.Collection,
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "chunk_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "text",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.config.Dimension),
				},
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// FLAT keeps search exact; the corpus is small.
	idx, err := entity.NewIndexFlat(entity.L2)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}
	if err := m.client.CreateIndex(ctx, m.config.Collection, "embedding", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := m.client.LoadCollection(ctx, m.config.Collection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// Insert adds chunk embedding records to the collection and flushes them.
func (m *MilvusIndex) Insert(ctx context.Context, records []embed.Record) error {
	if len(records) == 0 {
		return nil
	}

	chunkIDs := make([]string, len(records))
	texts := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	for i, record := range records {
		chunkIDs[i] = uuid.NewString()
		texts[i] = record.Text
		embeddings[i] = record.Embedding
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("chunk_id", chunkIDs),
		entity.NewColumnVarChar("text", texts),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, embeddings),
	}

	if _, err := m.client.Insert(ctx, m.config.Collection, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	if err := m.client.Flush(ctx, m.config.Collection, false); err != nil {
		return fmt.Errorf("failed to flush data: %w", err)
	}
	return nil
}

// Search performs top-K exact L2 search and returns chunks ascending by
// distance.
func (m *MilvusIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	if len(vector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(vector))
	}
	if topK <= 0 {
		return []Result{}, nil
	}

	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	vectors := []entity.Vector{entity.FloatVector(vector)}
	results, err := m.client.Search(
		ctx,
		m.config.Collection,
		nil, // partition names
		"",  // no filter expression
		[]string{"text"},
		vectors,
		"embedding",
		entity.L2,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if len(results) == 0 {
		return []Result{}, nil
	}

	out := make([]Result, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		r := Result{Distance: results[0].Scores[i]}
		for _, field := range results[0].Fields {
			if field.Name() == "text" {
				r.Text = field.(*entity.ColumnVarChar).Data()[i]
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Close releases the Milvus connection.
func (m *MilvusIndex) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

var _ Searcher = (*MilvusIndex)(nil)
