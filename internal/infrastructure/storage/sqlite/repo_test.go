package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"pricewatch/internal/domain"
)

func TestSQLiteRepoSaveLoad(t *testing.T) {
	dbPath := "test.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	b := domain.NewBaseline()
	b.Set("BTC", "usd", decimal.RequireFromString("50000.1"))
	b.Set("BTC", "gbp", decimal.RequireFromString("40000"))
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", got.Len())
	}
	if p, _ := got.Get("BTC", "usd"); p.String() != "50000.1" {
		t.Errorf("expected 50000.1, got %v", p)
	}
}

func TestSQLiteRepoSaveOverwrites(t *testing.T) {
	dbPath := "test_overwrite.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	b := domain.NewBaseline()
	b.Set("ETH", "usd", decimal.NewFromInt(2800))
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	b.Set("ETH", "usd", decimal.RequireFromString("2801.25"))
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected a single row per pair, got %d", got.Len())
	}
	if p, _ := got.Get("ETH", "usd"); p.String() != "2801.25" {
		t.Errorf("expected 2801.25, got %v", p)
	}
}

func TestSQLiteRepoSaveKeepsOtherPairs(t *testing.T) {
	dbPath := "test_keep.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	first := domain.NewBaseline()
	first.Set("SOL", "usd", decimal.NewFromInt(140))
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second := domain.NewBaseline()
	second.Set("BTC", "usd", decimal.NewFromInt(86000))
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p, ok := got.Get("SOL", "usd"); !ok || !p.Equal(decimal.NewFromInt(140)) {
		t.Errorf("expected SOL/usd 140 to survive, got %v %v", p, ok)
	}
	if got.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", got.Len())
	}
}
