package game

import (
	"log/slog"
	"sort"
	"time"
)

// Tick phases timed by the evaluator.
const (
	PhaseDecide  = "decide"
	PhaseArena   = "arena"
	PhaseObserve = "observe"
)

// PerfStats tracks a rolling window of durations per tick phase.
type PerfStats struct {
	samples    map[string][]time.Duration
	maxSamples int
}

// NewPerfStats creates a new performance stats tracker.
func NewPerfStats(maxSamples int) *PerfStats {
	if maxSamples < 1 {
		maxSamples = 120
	}
	return &PerfStats{
		samples:    make(map[string][]time.Duration),
		maxSamples: maxSamples,
	}
}

// Record adds a duration sample for the named phase.
func (p *PerfStats) Record(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Avg returns the average duration for the named phase.
func (p *PerfStats) Avg(name string) time.Duration {
	if p == nil {
		return 0
	}
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// Total returns the sum of all average durations.
func (p *PerfStats) Total() time.Duration {
	if p == nil {
		return 0
	}
	var total time.Duration
	for name := range p.samples {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns phase names sorted by average duration (descending).
func (p *PerfStats) SortedNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})
	return names
}

// LogValue implements slog.LogValuer with per-phase averages in microseconds.
func (p *PerfStats) LogValue() slog.Value {
	names := p.SortedNames()
	attrs := make([]slog.Attr, 0, len(names)+1)
	attrs = append(attrs, slog.Int64("total_us", p.Total().Microseconds()))
	for _, name := range names {
		attrs = append(attrs, slog.Int64(name+"_us", p.Avg(name).Microseconds()))
	}
	return slog.GroupValue(attrs...)
}
