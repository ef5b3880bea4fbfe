package kb

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminated sentences",
			text: "Min deposit is $10. Use risk management! Is leverage safe?",
			want: []string{"Min deposit is $10.", "Use risk management!", "Is leverage safe?"},
		},
		{
			name: "trailing fragment kept",
			text: "First sentence. trailing words without a terminator",
			want: []string{"First sentence.", "trailing words without a terminator"},
		},
		{
			name: "empty text",
			text: "   \n  ",
			want: nil,
		},
		{
			name: "no terminator at all",
			text: "just one fragment",
			want: []string{"just one fragment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "One two three four five. Six seven eight nine ten. Eleven twelve thirteen fourteen fifteen."
	first := Chunk(text, 10, 3, WordCounter{})
	for i := 0; i < 5; i++ {
		again := Chunk(text, 10, 3, WordCounter{})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different boundaries: %v vs %v", i, again, first)
		}
	}
}

func TestChunk_BudgetAndOverlap(t *testing.T) {
	// Three 5-token sentences, budget 10, overlap 5: the second sentence is
	// retained as overlap between the two chunks.
	text := "a b c d e. f g h i j. k l m n o."
	got := Chunk(text, 10, 5, WordCounter{})
	want := []string{"a b c d e. f g h i j.", "f g h i j. k l m n o."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk = %v, want %v", got, want)
	}
	for _, c := range got {
		if n := (WordCounter{}).Count(c); n > 10 {
			t.Errorf("chunk %q has %d tokens, budget 10", c, n)
		}
	}
}

func TestChunk_ZeroOverlapWhenSentenceExceedsBudget(t *testing.T) {
	// Overlap budget 3 is smaller than any single 5-token sentence, so the
	// front-trim drains the whole buffer and consecutive chunks share nothing.
	text := "a b c d e. f g h i j. k l m n o."
	got := Chunk(text, 10, 3, WordCounter{})
	want := []string{"a b c d e. f g h i j.", "k l m n o."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk = %v, want %v", got, want)
	}
}

func TestChunk_OversizedSentenceEmittedWhole(t *testing.T) {
	sentence := strings.Repeat("word ", 20) + "end."
	got := Chunk(sentence, 5, 2, WordCounter{})
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(got), got)
	}
	if n := (WordCounter{}).Count(got[0]); n <= 5 {
		t.Errorf("oversized sentence should exceed the budget, counted %d", n)
	}
}

func TestChunk_NoEmptyChunks(t *testing.T) {
	// An oversized leading sentence must not flush an empty buffer.
	text := strings.Repeat("big ", 30) + "sentence. a b."
	for _, c := range Chunk(text, 5, 2, WordCounter{}) {
		if strings.TrimSpace(c) == "" {
			t.Fatal("emitted an empty chunk")
		}
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk("", 300, 50, WordCounter{}); got != nil {
		t.Errorf("Chunk on empty text = %v, want nil", got)
	}
}
