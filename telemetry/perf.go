package telemetry

import (
	"github.com/pthm-cable/flap/game"
)

// PerfRecord is a flat struct for CSV export of per-tick phase timings,
// averaged over the evaluator's rolling window at the end of a generation.
type PerfRecord struct {
	Generation int     `csv:"generation"`
	AvgTickUS  int64   `csv:"avg_tick_us"`
	DecideUS   int64   `csv:"decide_us"`
	ArenaUS    int64   `csv:"arena_us"`
	ObserveUS  int64   `csv:"observe_us"`
	DecidePct  float64 `csv:"decide_pct"`
}

// NewPerfRecord converts the evaluator's timings to a CSV row.
func NewPerfRecord(generation int, p *game.PerfStats) PerfRecord {
	rec := PerfRecord{
		Generation: generation,
		AvgTickUS:  p.Total().Microseconds(),
		DecideUS:   p.Avg(game.PhaseDecide).Microseconds(),
		ArenaUS:    p.Avg(game.PhaseArena).Microseconds(),
		ObserveUS:  p.Avg(game.PhaseObserve).Microseconds(),
	}
	if total := p.Total(); total > 0 {
		rec.DecidePct = 100 * float64(p.Avg(game.PhaseDecide)) / float64(total)
	}
	return rec
}
