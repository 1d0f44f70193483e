//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "results.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	played := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	for i, score := range []int{3, 11, 7} {
		if _, err := store.SaveResult(ctx, Result{RunID: "r1", Name: "p", Score: score, DatePlayed: played.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	out, err := store.Results(ctx, 2)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(out) != 2 || out[0].Score != 11 || out[1].Score != 7 {
		t.Fatalf("unexpected results: %+v", out)
	}
	if !out[0].DatePlayed.Equal(played.Add(time.Second)) || out[0].RunID != "r1" {
		t.Errorf("fields not preserved: %+v", out[0])
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
	if _, err := store.Results(context.Background(), 1); err == nil {
		t.Fatal("expected error before init")
	}
}
