// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Bird      BirdConfig      `yaml:"bird"`
	Pipe      PipeConfig      `yaml:"pipe"`
	Ground    GroundConfig    `yaml:"ground"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Training  TrainingConfig  `yaml:"training"`
	NEAT      NEATConfig      `yaml:"neat"`
	Scores    ScoresConfig    `yaml:"scores"`
	Storage   StorageConfig   `yaml:"storage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Audio     AudioConfig     `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	TargetFPSAI     int `yaml:"target_fps_ai"`
	TargetFPSManual int `yaml:"target_fps_manual"`
}

// BirdConfig holds bird kinematics.
type BirdConfig struct {
	SpawnX          float64 `yaml:"spawn_x"`
	SpawnY          float64 `yaml:"spawn_y"`
	ImpulseVelocity float64 `yaml:"impulse_velocity"` // velocity set by a flap (negative = up)
	Gravity         float64 `yaml:"gravity"`          // a in d = v*t + a*t^2
	MaxDrop         float64 `yaml:"max_drop"`         // displacement clamp per tick
	RiseBoost       float64 `yaml:"rise_boost"`       // extra lift applied while rising
	MaxRotation     float64 `yaml:"max_rotation"`     // degrees, nose up
	MinRotation     float64 `yaml:"min_rotation"`     // degrees, nose down
	RotationSpeed   float64 `yaml:"rotation_speed"`   // degrees per tick while falling
	TiltMargin      float64 `yaml:"tilt_margin"`      // stay nose-up until this far below launch height
}

// PipeConfig holds obstacle parameters.
type PipeConfig struct {
	Gap       float64 `yaml:"gap"`
	Speed     float64 `yaml:"speed"`
	MinHeight int     `yaml:"min_height"` // inclusive
	MaxHeight int     `yaml:"max_height"` // exclusive
	FirstX    float64 `yaml:"first_x"`
	SpawnX    float64 `yaml:"spawn_x"`
}

// GroundConfig holds the scrolling floor parameters.
type GroundConfig struct {
	Y     float64 `yaml:"y"`
	Speed float64 `yaml:"speed"`
}

// FitnessConfig holds per-agent reward shaping.
type FitnessConfig struct {
	AliveReward      float64 `yaml:"alive_reward"`
	CollisionPenalty float64 `yaml:"collision_penalty"` // subtracted on pipe collision
	GapBonus         float64 `yaml:"gap_bonus"`
	DecideThreshold  float64 `yaml:"decide_threshold"` // flap when output exceeds this
}

// TrainingConfig holds generation scheduling parameters.
type TrainingConfig struct {
	MaxGenerations int `yaml:"max_generations"`
	MaxTicks       int `yaml:"max_ticks"` // per-generation tick cap (0 = unlimited)
}

// NEATConfig holds the subset of goNEAT options exposed to users.
type NEATConfig struct {
	PopSize                int     `yaml:"pop_size"`
	CompatThreshold        float64 `yaml:"compat_threshold"`
	DisjointCoeff          float64 `yaml:"disjoint_coeff"`
	ExcessCoeff            float64 `yaml:"excess_coeff"`
	MutdiffCoeff           float64 `yaml:"mutdiff_coeff"`
	WeightMutPower         float64 `yaml:"weight_mut_power"`
	MutateAddNodeProb      float64 `yaml:"mutate_add_node_prob"`
	MutateAddLinkProb      float64 `yaml:"mutate_add_link_prob"`
	MutateLinkWeightsProb  float64 `yaml:"mutate_link_weights_prob"`
	MutateToggleEnableProb float64 `yaml:"mutate_toggle_enable_prob"`
	MutateOnlyProb         float64 `yaml:"mutate_only_prob"`
	MateOnlyProb           float64 `yaml:"mate_only_prob"`
	InterspeciesMateRate   float64 `yaml:"interspecies_mate_rate"`
	SurvivalThresh         float64 `yaml:"survival_thresh"`
	DropOffAge             int     `yaml:"dropoff_age"`
	InitialWeightRange     float64 `yaml:"initial_weight_range"`
}

// ScoresConfig holds the local high-score table settings.
type ScoresConfig struct {
	Path       string `yaml:"path"`
	MaxEntries int    `yaml:"max_entries"`
	MaxNameLen int    `yaml:"max_name_len"`
}

// StorageConfig selects the results mirror backend.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // memory | sqlite
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
	LogEvery  int    `yaml:"log_every"` // log generation stats every N generations
}

// AudioConfig holds sound effect parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	FloorY    float64 // bottom kill boundary (ground top edge)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects settings the simulation cannot run with.
func (c *Config) validate() error {
	if c.Pipe.MaxHeight <= c.Pipe.MinHeight {
		return fmt.Errorf("pipe: max_height (%d) must exceed min_height (%d)", c.Pipe.MaxHeight, c.Pipe.MinHeight)
	}
	if c.Pipe.Speed <= 0 {
		return fmt.Errorf("pipe: speed must be positive, got %v", c.Pipe.Speed)
	}
	if c.NEAT.PopSize <= 0 {
		return fmt.Errorf("neat: pop_size must be positive, got %d", c.NEAT.PopSize)
	}
	if c.Scores.MaxEntries <= 0 {
		return fmt.Errorf("scores: max_entries must be positive, got %d", c.Scores.MaxEntries)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FloorY = c.Ground.Y
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
