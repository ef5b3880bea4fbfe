// Package index provides per-tier nearest-neighbor search over chunk
// embeddings. The default backend is an in-memory exact L2 index built once
// at startup; a Milvus-backed implementation is available for deployments
// that keep the index server-side.
package index

import "context"

// Result is one retrieved chunk with its distance from the query vector.
// Smaller distance means more similar.
type Result struct {
	Text     string
	Distance float32
}

// Searcher performs top-K nearest-neighbor retrieval. Implementations are
// read-only after construction and safe for concurrent use.
type Searcher interface {
	// Search returns up to topK chunk texts ascending by distance. An empty
	// index yields an empty result, never an error.
	Search(ctx context.Context, vector []float32, topK int) ([]Result, error)
}

// Texts extracts just the chunk texts from results, preserving order.
func Texts(results []Result) []string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts
}
