package index

import (
	"context"
	"sort"

	"deskrag/internal/embed"
)

// MemoryIndex is an exact L2 nearest-neighbor index over (chunk, embedding)
// pairs. The corpus is small enough that exhaustive search is acceptable;
// there is no approximation. Read-only after construction, so concurrent
// searches need no locking. Rebuilding requires a fresh BuildMemoryIndex.
type MemoryIndex struct {
	texts   []string
	vectors [][]float32
}

// BuildMemoryIndex embeds every chunk through a bounded worker pool and
// stores the (chunk, embedding) pairs. An embedding failure aborts the whole
// build. No chunks yields a valid empty index.
func BuildMemoryIndex(ctx context.Context, chunks []string, embedder embed.Embedder, workers int) (*MemoryIndex, error) {
	ix := &MemoryIndex{}
	if len(chunks) == 0 {
		return ix, nil
	}

	records, err := embed.BatchEmbed(ctx, embedder, chunks, workers)
	if err != nil {
		return nil, err
	}

	ix.texts = make([]string, len(records))
	ix.vectors = make([][]float32, len(records))
	for i, rec := range records {
		ix.texts[i] = rec.Text
		ix.vectors[i] = rec.Embedding
	}
	return ix, nil
}

// Len returns the number of indexed chunks.
func (ix *MemoryIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.texts)
}

// Search returns up to topK chunks ascending by squared L2 distance.
// A nil or empty index returns an empty result and never errors.
func (ix *MemoryIndex) Search(ctx context.Context, vector []float32, topK int) ([]Result, error) {
	if ix == nil || len(ix.texts) == 0 || topK <= 0 {
		return []Result{}, nil
	}

	results := make([]Result, len(ix.texts))
	for i := range ix.vectors {
		results[i] = Result{
			Text:     ix.texts[i],
			Distance: squaredL2(ix.vectors[i], vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// squaredL2 computes the squared Euclidean distance. Ordering is identical
// to true L2, so the square root is skipped.
func squaredL2(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	// Mismatched tails count as distance from zero.
	for i := n; i < len(a); i++ {
		sum += a[i] * a[i]
	}
	for i := n; i < len(b); i++ {
		sum += b[i] * b[i]
	}
	return sum
}

var _ Searcher = (*MemoryIndex)(nil)
