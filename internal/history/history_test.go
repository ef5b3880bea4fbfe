package history

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testTurns() []Turn {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Turn{
		{Question: "What is the minimum deposit?", Answer: "The minimum deposit is $10.", AskedAt: at},
		{Question: "Is leverage risky?", Answer: "Yes, use risk management.", AskedAt: at.Add(time.Minute)},
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	turns := testTurns()

	if err := store.Save(ctx, "42", turns); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.Load(ctx, "42")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, turns) {
		t.Errorf("loaded %v, want %v", loaded, turns)
	}
}

func TestMemoryStore_UnknownIdentity(t *testing.T) {
	loaded, err := NewMemoryStore().Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("unknown identity returned %d turns", len(loaded))
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Save(ctx, "1", testTurns()); err != nil {
		t.Fatal(err)
	}
	loaded, _ := store.Load(ctx, "1")
	loaded[0].Answer = "mutated"
	again, _ := store.Load(ctx, "1")
	if again[0].Answer == "mutated" {
		t.Error("Load leaked internal state")
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	turns := testTurns()
	if err := store.Save(ctx, "42", turns); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.Load(ctx, "42")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, turns) {
		t.Errorf("loaded %v, want %v", loaded, turns)
	}

	// Overwrite with an appended sequence, as the pipeline does.
	turns = append(turns, Turn{Question: "q3", Answer: "a3"})
	if err := store.Save(ctx, "42", turns); err != nil {
		t.Fatal(err)
	}
	loaded, _ = store.Load(ctx, "42")
	if len(loaded) != 3 {
		t.Errorf("after overwrite got %d turns, want 3", len(loaded))
	}
}

func TestSQLiteStore_CorruptPayloadLoadsEmpty(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO histories (identity, turns, updated_at) VALUES ('13', '{not json', '2025-01-01')`); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, "13")
	if err != nil {
		t.Fatalf("corrupt record must not raise, got %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("corrupt record loaded %d turns, want 0", len(loaded))
	}
}
