package engine

// ProgressRecord captures the engine state after one tick.
type ProgressRecord struct {
	Tick         int
	Count        int
	FailureCount uint64
	Inserted     int
	Moved        int
	Density      float64 // percent
}

// Trace collects per-tick progress of one run.
type Trace struct {
	Records []ProgressRecord
}

// NewTrace creates a Trace ready for recording.
func NewTrace() *Trace {
	return &Trace{Records: make([]ProgressRecord, 0)}
}

// Record appends the outcome of a tick. Results from no-op ticks (Tick
// unchanged) are ignored.
func (t *Trace) Record(res TickResult, containerArea float64) {
	if n := len(t.Records); n > 0 && t.Records[n-1].Tick == res.Tick {
		return
	}
	density := 0.0
	if containerArea > 0 {
		density = float64(len(res.Squares)) / containerArea * 100.0
	}
	t.Records = append(t.Records, ProgressRecord{
		Tick:         res.Tick,
		Count:        len(res.Squares),
		FailureCount: res.FailureCount,
		Inserted:     res.Inserted,
		Moved:        res.Moved,
		Density:      density,
	})
}

// TraceSummary aggregates a Trace.
type TraceSummary struct {
	Ticks             int
	FinalCount        int
	FinalDensity      float64
	TotalInserted     int
	TotalMoved        int
	PeakFailureStreak uint64
	// LastInsertTick is the tick of the final successful insertion, 0 if none.
	LastInsertTick int
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *TraceSummary {
	summary := &TraceSummary{}
	if t == nil || len(t.Records) == 0 {
		return summary
	}

	for _, r := range t.Records {
		summary.TotalInserted += r.Inserted
		summary.TotalMoved += r.Moved
		if r.FailureCount > summary.PeakFailureStreak {
			summary.PeakFailureStreak = r.FailureCount
		}
		if r.Inserted > 0 {
			summary.LastInsertTick = r.Tick
		}
	}

	last := t.Records[len(t.Records)-1]
	summary.Ticks = last.Tick
	summary.FinalCount = last.Count
	summary.FinalDensity = last.Density
	return summary
}
