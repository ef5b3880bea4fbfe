package embed

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the bounded-parallelism width for batch embedding.
const DefaultWorkers = 4

// BatchEmbed embeds every text through a bounded worker pool and returns one
// record per input, in input order regardless of completion order. Any
// failure cancels the remaining work and aborts the whole batch.
func BatchEmbed(ctx context.Context, e Embedder, texts []string, workers int) ([]Record, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	records := make([]Record, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			rec, err := e.Embed(ctx, []string{text})
			if err != nil {
				return err
			}
			if len(rec) == 0 {
				return ErrEmbeddingFailed
			}
			records[i] = Record{
				Text:      text,
				Embedding: rec[0].Embedding,
				Index:     i,
				Model:     rec[0].Model,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
