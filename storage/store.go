// Package storage mirrors finished manual games into a results store.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotInitialized is returned by stores used before Init.
var ErrNotInitialized = errors.New("store not initialized")

// Result is one finished game.
type Result struct {
	ID         int64
	RunID      string
	Name       string
	Score      int
	DatePlayed time.Time
}

// Store persists game results.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, r Result) (int64, error)
	// Results returns up to limit results, best score first, ties by date.
	Results(ctx context.Context, limit int) ([]Result, error)
	Close() error
}
