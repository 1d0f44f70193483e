package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/flap/scores"
	"github.com/pthm-cable/flap/storage"
)

// previewSize is the number of table rows shown on the game over screen.
const previewSize = 5

// GameOver is what the game over screen shows for a finished manual game.
type GameOver struct {
	Name    string
	Score   int
	TopTen  bool // the score entered the local table
	DBSaved bool // the results store accepted the game
	Preview []scores.Entry
}

// RecordGame submits a finished game to the local table and the results
// store. Neither failure is fatal; both are logged and reflected in the
// returned flags.
func RecordGame(ctx context.Context, table *scores.Table, store storage.Store, runID, name string, score int, now time.Time) GameOver {
	over := GameOver{Name: name, Score: score}

	if table != nil {
		top, err := table.Submit(name, score)
		if err != nil {
			slog.Warn("saving high score failed", "name", name, "score", score, "error", err)
		}
		over.TopTen = top
		over.Preview = table.Entries()
		if len(over.Preview) > previewSize {
			over.Preview = over.Preview[:previewSize]
		}
	}

	if store != nil {
		id, err := store.SaveResult(ctx, storage.Result{
			RunID:      runID,
			Name:       name,
			Score:      score,
			DatePlayed: now,
		})
		if err != nil {
			slog.Warn("saving result failed", "name", name, "score", score, "error", err)
		} else {
			over.DBSaved = true
			slog.Debug("result saved", "id", id, "name", name, "score", score)
		}
	}

	return over
}

// SavedLabel is the store status line on the game over screen.
func (g GameOver) SavedLabel() string {
	if g.DBSaved {
		return "DB saved: Yes"
	}
	return "DB saved: No"
}
