package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Bird.ImpulseVelocity != -10.5 {
		t.Errorf("impulse velocity = %v, want -10.5", cfg.Bird.ImpulseVelocity)
	}
	if cfg.Pipe.MinHeight != 40 || cfg.Pipe.MaxHeight != 450 {
		t.Errorf("pipe height range = [%d, %d), want [40, 450)", cfg.Pipe.MinHeight, cfg.Pipe.MaxHeight)
	}
	if cfg.Fitness.AliveReward != 0.1 || cfg.Fitness.CollisionPenalty != 1 || cfg.Fitness.GapBonus != 5 {
		t.Errorf("fitness = %+v, want alive 0.1 / penalty 1 / bonus 5", cfg.Fitness)
	}
	if cfg.Derived.FloorY != cfg.Ground.Y {
		t.Errorf("derived floor = %v, want %v", cfg.Derived.FloorY, cfg.Ground.Y)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := []byte("pipe:\n  gap: 150\nneat:\n  pop_size: 7\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Pipe.Gap != 150 {
		t.Errorf("gap = %v, want 150", cfg.Pipe.Gap)
	}
	if cfg.NEAT.PopSize != 7 {
		t.Errorf("pop size = %d, want 7", cfg.NEAT.PopSize)
	}
	// Untouched fields keep their defaults
	if cfg.Pipe.Speed != 5 {
		t.Errorf("speed = %v, want default 5", cfg.Pipe.Speed)
	}
}

func TestLoadRejectsBadRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("pipe:\n  min_height: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for min_height >= max_height")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Training.MaxGenerations = 3

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Training.MaxGenerations != 3 {
		t.Errorf("max generations = %d, want 3", loaded.Training.MaxGenerations)
	}
}
