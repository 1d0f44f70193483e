package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
	"github.com/pthm-cable/flap/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.NEAT.PopSize = 10
	cfg.Training.MaxGenerations = 2
	cfg.Training.MaxTicks = 200
	cfg.Scores.Path = filepath.Join(t.TempDir(), "highscores.txt")
	return cfg
}

func TestTrainerRun(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	tr := newTrainer(cfg, assets.Procedural(), 7, "run-1", out)
	if got := tr.Stats(); got.Population != 0 {
		t.Errorf("stats before run = %+v", got)
	}
	if tr.Perf() != nil {
		t.Error("perf before run should be nil")
	}

	frames := 0
	sum, err := tr.Run(context.Background(), game.ObserverFunc(func(game.Frame) { frames++ }))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Generations != 2 || sum.Cancelled {
		t.Errorf("summary = %+v", sum)
	}
	if frames == 0 {
		t.Error("observer saw no frames")
	}

	stats := tr.Stats()
	if stats.Population != 10 || stats.Generation != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if tr.Perf() == nil {
		t.Error("perf should be available after a run")
	}
	if tr.hall.Size() == 0 {
		t.Error("hall of fame is empty")
	}

	for _, name := range []string{"generations.csv", "perf.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestTrainerCancelled(t *testing.T) {
	cfg := testConfig(t)
	tr := newTrainer(cfg, assets.Procedural(), 1, "run", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := tr.Run(ctx, game.NopObserver{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Cancelled || sum.Generations != 0 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, 0, "", "", "", false)
	if cfg.Training.MaxGenerations != config.Default().Training.MaxGenerations || cfg.Audio.Enabled {
		t.Errorf("empty flags changed config: %+v", cfg.Training)
	}

	applyFlags(cfg, 7, "out", "sqlite", "x.db", true)
	if cfg.Training.MaxGenerations != 7 || cfg.Telemetry.OutputDir != "out" ||
		cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != "x.db" || !cfg.Audio.Enabled {
		t.Errorf("flags not applied: %+v %+v %+v", cfg.Training, cfg.Storage, cfg.Audio)
	}
}

func TestPrintScores(t *testing.T) {
	cfg := testConfig(t)

	var buf bytes.Buffer
	if err := printScores(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no high scores") {
		t.Errorf("output = %q", buf.String())
	}

	if err := os.WriteFile(cfg.Scores.Path, []byte("ann,3\nbob,9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := printScores(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	want := "1st  bob - 9\n2nd  ann - 3\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
