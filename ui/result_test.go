package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/flap/scores"
	"github.com/pthm-cable/flap/storage"
)

func TestRecordGame(t *testing.T) {
	ctx := context.Background()
	table, err := scores.Open(filepath.Join(t.TempDir(), "highscores.txt"), 3)
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	over := RecordGame(ctx, table, store, "run", "ace", 12, now)
	if !over.TopTen || !over.DBSaved {
		t.Errorf("over = %+v, want top ten and saved", over)
	}
	if over.SavedLabel() != "DB saved: Yes" {
		t.Errorf("label = %q", over.SavedLabel())
	}
	if len(over.Preview) != 1 || over.Preview[0] != (scores.Entry{Name: "ace", Score: 12}) {
		t.Errorf("preview = %v", over.Preview)
	}

	results, err := store.Results(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].RunID != "run" || !results[0].DatePlayed.Equal(now) {
		t.Errorf("results = %+v", results)
	}
}

func TestRecordGameStoreFailure(t *testing.T) {
	ctx := context.Background()
	table, err := scores.Open(filepath.Join(t.TempDir(), "highscores.txt"), 10)
	if err != nil {
		t.Fatal(err)
	}

	// An uninitialised store rejects writes
	over := RecordGame(ctx, table, storage.NewMemoryStore(), "run", "bo", 3, time.Now())
	if over.DBSaved {
		t.Error("expected DBSaved = false")
	}
	if !over.TopTen {
		t.Error("local table should still accept the score")
	}
	if over.SavedLabel() != "DB saved: No" {
		t.Errorf("label = %q", over.SavedLabel())
	}
}

func TestRecordGamePreviewTruncated(t *testing.T) {
	table, err := scores.Open(filepath.Join(t.TempDir(), "highscores.txt"), 10)
	if err != nil {
		t.Fatal(err)
	}
	var over GameOver
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		over = RecordGame(context.Background(), table, nil, "", name, i, time.Now())
	}
	if len(over.Preview) != previewSize {
		t.Fatalf("preview = %d rows, want %d", len(over.Preview), previewSize)
	}
	if over.Preview[0].Name != "g" {
		t.Errorf("preview[0] = %v", over.Preview[0])
	}
	if over.DBSaved {
		t.Error("nil store cannot save")
	}
}
