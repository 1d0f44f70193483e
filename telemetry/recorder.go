package telemetry

import (
	"log/slog"

	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flap/game"
)

// ChampionSource reports the best genome found so far.
type ChampionSource interface {
	Champion() (*genetics.Genome, float64)
}

// Recorder turns scheduler reports into logs, CSV rows and hall entries.
type Recorder struct {
	RunID    string
	LogEvery int

	out       *OutputManager
	perf      *game.PerfStats
	champions ChampionSource
	hall      *HallOfFame
	last      GenerationStats
}

// NewRecorder creates a recorder. out, perf and champions may be nil.
func NewRecorder(runID string, logEvery int, out *OutputManager, perf *game.PerfStats, champions ChampionSource, hall *HallOfFame) *Recorder {
	return &Recorder{
		RunID:     runID,
		LogEvery:  logEvery,
		out:       out,
		perf:      perf,
		champions: champions,
		hall:      hall,
	}
}

// Record handles one generation. Output errors are logged, not returned,
// so a full disk never stops training.
func (r *Recorder) Record(rep game.GenerationReport) {
	stats := NewGenerationStats(r.RunID, rep)
	r.last = stats

	if r.LogEvery > 0 && rep.Generation%r.LogEvery == 0 {
		stats.LogStats()
	}

	if err := r.out.WriteGeneration(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if r.perf != nil {
		if err := r.out.WritePerf(NewPerfRecord(rep.Generation, r.perf)); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}

	if r.champions != nil {
		if g, fit := r.champions.Champion(); g != nil {
			r.hall.Consider(EntryFromGenome(rep.Generation, fit, g))
		}
	}
}

// Last returns the most recently recorded generation.
func (r *Recorder) Last() GenerationStats {
	return r.last
}

// Close writes the hall of fame.
func (r *Recorder) Close() error {
	return r.out.WriteHallOfFame(r.hall)
}
