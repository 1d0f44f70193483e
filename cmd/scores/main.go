// Package main prints the local high-score table and, optionally, the
// results mirrored into the results store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/scores"
	"github.com/pthm-cable/flap/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	path := flag.String("path", "", "High-score file (empty = use config)")
	results := flag.Int("results", 0, "Also list the best N results from the store")
	storeKind := flag.String("store", "", "Results store: memory or sqlite (empty = use config)")
	sqlitePath := flag.String("sqlite-path", "", "SQLite database path (empty = use config)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *path != "" {
		cfg.Scores.Path = *path
	}
	if *storeKind != "" {
		cfg.Storage.Backend = *storeKind
	}
	if *sqlitePath != "" {
		cfg.Storage.SQLitePath = *sqlitePath
	}

	table, err := scores.Open(cfg.Scores.Path, cfg.Scores.MaxEntries)
	if err != nil {
		log.Fatal(err)
	}
	printTable(os.Stdout, table.Entries())

	if *results <= 0 {
		return
	}

	store, err := storage.NewStore(cfg.Storage.Backend, cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatal(err)
	}
	rs, err := store.Results(ctx, *results)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println()
	printResults(os.Stdout, rs, time.Now())
}

func printTable(w io.Writer, entries []scores.Entry) {
	fmt.Fprintf(w, "TOP %d HIGHSCORES\n", len(entries))
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %s\n", scores.FormatRank(i+1, e))
	}
}

func printResults(w io.Writer, rs []storage.Result, now time.Time) {
	fmt.Fprintf(w, "RESULTS (%d)\n", len(rs))
	for i, r := range rs {
		fmt.Fprintf(w, "  %-4s %-16s %6s  %s\n",
			humanize.Ordinal(i+1), r.Name, humanize.Comma(int64(r.Score)), humanize.RelTime(r.DatePlayed, now, "ago", "from now"))
	}
}
