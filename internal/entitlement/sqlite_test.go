package entitlement

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteChecker(t *testing.T) {
	checker, err := NewSQLiteChecker(filepath.Join(t.TempDir(), "ent.db"))
	if err != nil {
		t.Fatalf("open checker: %v", err)
	}
	defer checker.Close()
	ctx := context.Background()

	t.Run("unknown identity", func(t *testing.T) {
		ok, err := checker.HasActiveEntitlement(ctx, "stranger")
		if err != nil || ok {
			t.Errorf("got %v, %v; want false, nil", ok, err)
		}
	})

	t.Run("active entitlement", func(t *testing.T) {
		if err := checker.Grant(ctx, "42", time.Now().Add(24*time.Hour)); err != nil {
			t.Fatal(err)
		}
		ok, err := checker.HasActiveEntitlement(ctx, "42")
		if err != nil || !ok {
			t.Errorf("got %v, %v; want true, nil", ok, err)
		}
	})

	t.Run("expired entitlement", func(t *testing.T) {
		if err := checker.Grant(ctx, "7", time.Now().Add(-time.Hour)); err != nil {
			t.Fatal(err)
		}
		ok, err := checker.HasActiveEntitlement(ctx, "7")
		if err != nil || ok {
			t.Errorf("got %v, %v; want false, nil", ok, err)
		}
	})
}

func TestStatic(t *testing.T) {
	ok, err := Static(true).HasActiveEntitlement(context.Background(), "anyone")
	if err != nil || !ok {
		t.Errorf("Static(true) = %v, %v", ok, err)
	}
}
