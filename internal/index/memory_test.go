package index

import (
	"context"
	"errors"
	"testing"

	"deskrag/internal/embed"
)

func TestMemoryIndex_ExactMatchFirst(t *testing.T) {
	mock := &embed.MockEmbedder{
		Dim: 3,
		Vectors: map[string][]float32{
			"Min deposit is $10.":  {1, 0, 0},
			"Use risk management.": {0, 1, 0},
		},
	}
	ix, err := BuildMemoryIndex(context.Background(), []string{"Min deposit is $10.", "Use risk management."}, mock, 2)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	results, err := ix.Search(context.Background(), []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Text != "Min deposit is $10." {
		t.Errorf("top result = %q, want the exact-match chunk", results[0].Text)
	}
	if results[0].Distance > 1e-6 {
		t.Errorf("exact match distance = %f, want ~0", results[0].Distance)
	}
}

func TestMemoryIndex_AscendingByDistance(t *testing.T) {
	mock := &embed.MockEmbedder{
		Dim: 2,
		Vectors: map[string][]float32{
			"near":    {1, 0},
			"nearer":  {0.9, 0},
			"nearest": {0.99, 0},
		},
	}
	ix, err := BuildMemoryIndex(context.Background(), []string{"near", "nearer", "nearest"}, mock, 4)
	if err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"near", "nearest", "nearer"}
	for i, w := range want {
		if results[i].Text != w {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Text, w)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Error("results not ascending by distance")
		}
	}
}

func TestMemoryIndex_EmptyAndNilNeverError(t *testing.T) {
	empty, err := BuildMemoryIndex(context.Background(), nil, &embed.MockEmbedder{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	results, err := empty.Search(context.Background(), []float32{1, 2, 3}, 5)
	if err != nil {
		t.Errorf("empty index search errored: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty index returned %d results", len(results))
	}

	var unbuilt *MemoryIndex
	results, err = unbuilt.Search(context.Background(), []float32{1}, 3)
	if err != nil || len(results) != 0 {
		t.Errorf("nil index: results=%v err=%v", results, err)
	}
	if unbuilt.Len() != 0 {
		t.Errorf("nil index Len = %d", unbuilt.Len())
	}
}

func TestMemoryIndex_TopKClamped(t *testing.T) {
	mock := &embed.MockEmbedder{Dim: 2}
	ix, err := BuildMemoryIndex(context.Background(), []string{"a", "b"}, mock, 4)
	if err != nil {
		t.Fatal(err)
	}
	results, err := ix.Search(context.Background(), []float32{0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestBuildMemoryIndex_AbortsOnEmbedFailure(t *testing.T) {
	wantErr := errors.New("api down")
	_, err := BuildMemoryIndex(context.Background(), []string{"a"}, &embed.MockEmbedder{Err: wantErr}, 4)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
