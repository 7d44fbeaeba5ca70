package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StageStats accumulates timing for one stage across cycles. Failures count
// recovered filter errors; their duration is still recorded.
type StageStats struct {
	Runs     uint64
	Failures uint64
	Total    time.Duration
	Min      time.Duration
	Max      time.Duration
}

// Avg returns the mean duration per run.
func (s StageStats) Avg() time.Duration {
	if s.Runs == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Runs)
}

// Stats is a point-in-time snapshot of pipeline timing, taken on the same
// thread that runs the cycles.
type Stats struct {
	Cycles uint64
	Stages map[string]StageStats
}

// Report renders the snapshot as one line per stage, sorted by name.
func (s Stats) Report() string {
	names := make([]string, 0, len(s.Stages))
	for name := range s.Stages {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "pipeline: %d cycles\n", s.Cycles)
	for _, name := range names {
		st := s.Stages[name]
		fmt.Fprintf(&b, "  %-16s runs=%d avg=%s max=%s failures=%d\n",
			name, st.Runs, st.Avg().Round(time.Microsecond),
			st.Max.Round(time.Microsecond), st.Failures)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Pipeline) record(name string, d time.Duration, failed bool) {
	st := p.timings[name]
	if st == nil {
		st = &StageStats{Min: d}
		p.timings[name] = st
	}
	st.Runs++
	st.Total += d
	if d < st.Min {
		st.Min = d
	}
	if d > st.Max {
		st.Max = d
	}
	if failed {
		st.Failures++
	}
}

// Stats returns a copy of the accumulated timing counters.
func (p *Pipeline) Stats() Stats {
	out := Stats{
		Cycles: p.cycles,
		Stages: make(map[string]StageStats, len(p.timings)),
	}
	for name, st := range p.timings {
		out.Stages[name] = *st
	}
	return out
}
