package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flap/game"
)

// GenerationStats summarises one evaluated generation.
type GenerationStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`
	State      string `csv:"state"`
	Score      int    `csv:"score"`
	Ticks      int    `csv:"ticks"`
	Population int    `csv:"population"`
	Survivors  int    `csv:"survivors"`

	// Fitness distribution over the whole population
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessMin  float64 `csv:"fitness_min"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`
	FitnessMax  float64 `csv:"fitness_max"`
}

// FitnessStats holds the distribution of one generation's fitness.
type FitnessStats struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates mean, population standard deviation,
// extremes and percentiles. An empty slice yields all zeros.
func ComputeFitnessStats(values []float64) FitnessStats {
	n := len(values)
	if n == 0 {
		return FitnessStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return FitnessStats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// NewGenerationStats builds the record for one scheduler report.
func NewGenerationStats(runID string, r game.GenerationReport) GenerationStats {
	fs := ComputeFitnessStats(r.Fitness)
	return GenerationStats{
		RunID:       runID,
		Generation:  r.Generation,
		State:       r.Outcome.State.String(),
		Score:       r.Outcome.Score,
		Ticks:       r.Outcome.Ticks,
		Population:  len(r.Fitness),
		Survivors:   r.Outcome.Survivors,
		FitnessMean: fs.Mean,
		FitnessStd:  fs.Std,
		FitnessMin:  fs.Min,
		FitnessP10:  fs.P10,
		FitnessP50:  fs.P50,
		FitnessP90:  fs.P90,
		FitnessMax:  fs.Max,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("generation", s.Generation),
		slog.String("state", s.State),
		slog.Int("score", s.Score),
		slog.Int("ticks", s.Ticks),
		slog.Int("population", s.Population),
		slog.Int("survivors", s.Survivors),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_min", s.FitnessMin),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Float64("fitness_max", s.FitnessMax),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"state", s.State,
		"score", s.Score,
		"ticks", s.Ticks,
		"fitness_max", s.FitnessMax,
		"fitness_mean", s.FitnessMean,
	)
}
