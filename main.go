package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/audio"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
	"github.com/pthm-cable/flap/renderer"
	"github.com/pthm-cable/flap/scores"
	"github.com/pthm-cable/flap/storage"
	"github.com/pthm-cable/flap/telemetry"
	"github.com/pthm-cable/flap/terminal"
	"github.com/pthm-cable/flap/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "play", "play (title menu), train or scores")
	headless := flag.Bool("headless", false, "Train without graphics")
	tui := flag.Bool("tui", false, "Train in the terminal instead of a window")
	generations := flag.Int("generations", 0, "Generation limit (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	assetsDir := flag.String("assets", "", "Sprite directory (empty = procedural shapes)")
	storeKind := flag.String("store", "", "Results store: memory or sqlite (empty = use config)")
	sqlitePath := flag.String("sqlite-path", "", "SQLite database path (empty = use config)")
	sound := flag.Bool("sound", false, "Enable sound effects")
	verbose := flag.Bool("verbose", false, "Log debug output")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	applyFlags(cfg, *generations, *outputDir, *storeKind, *sqlitePath, *sound)

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging). The terminal view
	// owns stdout, so logs are dropped there.
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	var logOut io.Writer = os.Stdout
	if *tui {
		logOut = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch *mode {
	case "scores":
		err = printScores(os.Stdout, cfg)
	case "train":
		err = runTraining(ctx, cfg, *assetsDir, rngSeed, *headless, *tui)
	case "play":
		err = runApp(ctx, cfg, *assetsDir, rngSeed)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		slog.Error("exiting", "mode", *mode, "error", err)
		os.Exit(1)
	}
}

// applyFlags overrides config values with non-empty command line flags.
func applyFlags(cfg *config.Config, generations int, outputDir, storeKind, sqlitePath string, sound bool) {
	if generations > 0 {
		cfg.Training.MaxGenerations = generations
	}
	if outputDir != "" {
		cfg.Telemetry.OutputDir = outputDir
	}
	if storeKind != "" {
		cfg.Storage.Backend = storeKind
	}
	if sqlitePath != "" {
		cfg.Storage.SQLitePath = sqlitePath
	}
	if sound {
		cfg.Audio.Enabled = true
	}
}

func loadBundle(dir string) (*assets.Bundle, error) {
	if dir == "" {
		return assets.Procedural(), nil
	}
	return assets.Load(dir)
}

// openEffects starts the speaker when sound is enabled. A missing audio
// device only disables sound.
func openEffects(cfg *config.Config) *audio.Effects {
	fx := audio.NewEffects(cfg.Audio)
	if !cfg.Audio.Enabled {
		return fx
	}
	if err := fx.Init(); err != nil {
		slog.Warn("sound disabled", "error", err)
	}
	return fx
}

func runTraining(ctx context.Context, cfg *config.Config, assetsDir string, seed int64, headless, tui bool) error {
	bundle, err := loadBundle(assetsDir)
	if err != nil {
		return err
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	t := newTrainer(cfg, bundle, seed, runID, out)
	slog.Info("starting training", "seed", seed, "run_id", runID, "headless", headless, "tui", tui, "output_dir", out.Dir())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obs game.Observer = game.NopObserver{}
	switch {
	case headless:
	case tui:
		view, err := terminal.Open(cfg, bundle, cfg.Screen.TargetFPSAI, cancel)
		if err != nil {
			return err
		}
		defer view.Close()
		obs = view
	default:
		win, err := renderer.Open(cfg, bundle, "Flappy Bird - training")
		if err != nil {
			return err
		}
		defer win.Close()
		obs = win.Observer(cancel, nil)
	}

	fx := openEffects(cfg)
	defer fx.Close()
	if cfg.Audio.Enabled {
		obs = audio.NewObserver(obs, fx)
	}

	_, err = t.Run(ctx, obs)
	return err
}

func runApp(ctx context.Context, cfg *config.Config, assetsDir string, seed int64) error {
	bundle, err := loadBundle(assetsDir)
	if err != nil {
		return err
	}

	table, err := scores.Open(cfg.Scores.Path, cfg.Scores.MaxEntries)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Storage.Backend, cfg.Storage.SQLitePath)
	if err == nil {
		err = store.Init(ctx)
	}
	if err != nil {
		// Results mirroring is optional; games still reach the local table
		slog.Warn("results store unavailable", "backend", cfg.Storage.Backend, "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()

	win, err := renderer.Open(cfg, bundle, "Flappy Bird")
	if err != nil {
		return err
	}
	defer win.Close()

	fx := openEffects(cfg)
	defer fx.Close()

	runID := uuid.NewString()
	app := ui.NewApp(ui.Options{
		Config:  cfg,
		Window:  win,
		Bundle:  bundle,
		Rng:     rand.New(rand.NewSource(seed)),
		Table:   table,
		Store:   store,
		Trainer: &soundTrainer{newTrainer(cfg, bundle, seed, runID, out), fx, cfg.Audio.Enabled},
		Sounds:  fx,
		RunID:   runID,
	})
	return app.Run(ctx)
}

// soundTrainer adds the score chime to AI mode when sound is on.
type soundTrainer struct {
	*trainer
	fx      *audio.Effects
	enabled bool
}

func (s *soundTrainer) Run(ctx context.Context, obs game.Observer) (game.Summary, error) {
	if s.enabled {
		obs = audio.NewObserver(obs, s.fx)
	}
	return s.trainer.Run(ctx, obs)
}

func printScores(w io.Writer, cfg *config.Config) error {
	table, err := scores.Open(cfg.Scores.Path, cfg.Scores.MaxEntries)
	if err != nil {
		return err
	}
	entries := table.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no high scores yet")
		return nil
	}
	for i, e := range entries {
		fmt.Fprintln(w, scores.FormatRank(i+1, e))
	}
	return nil
}
