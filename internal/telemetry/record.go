// Package telemetry collects per-step field statistics from headless runs and
// writes them as CSV.
package telemetry

import (
	"time"

	"lenia/internal/lenia"
)

// Record is one sampled step.
type Record struct {
	Step       int     `csv:"step"`
	Mass       float64 `csv:"mass"`
	Mean       float64 `csv:"mean"`
	Min        float64 `csv:"min"`
	Max        float64 `csv:"max"`
	ActiveFrac float64 `csv:"active_frac"`
	NaN        int     `csv:"nan"`
	StepMicros int64   `csv:"step_us"`
}

// NewRecord builds a record from field statistics over cells cells.
func NewRecord(step int, st lenia.Stats, cells int, took time.Duration) Record {
	r := Record{
		Step:       step,
		Mass:       st.Mass,
		Mean:       st.Mean,
		Min:        st.Min,
		Max:        st.Max,
		NaN:        st.NaN,
		StepMicros: took.Microseconds(),
	}
	if cells > 0 {
		r.ActiveFrac = float64(st.Active) / float64(cells)
	}
	return r
}

// Summary condenses a run.
type Summary struct {
	Steps          int
	Samples        int
	FinalMass      float64
	PeakMass       float64
	PeakStep       int
	MeanStepMicros float64
	NaNSamples     int
}

// Collector keeps every Every-th record in memory.
type Collector struct {
	every   int
	records []Record
	steps   int
	total   time.Duration
}

// NewCollector samples one step in every. Values below 1 sample every step.
func NewCollector(every int) *Collector {
	if every < 1 {
		every = 1
	}
	return &Collector{every: every}
}

// Observe accounts for one step and keeps it when it falls on the sampling
// interval or is the first step. It reports whether the step was kept.
func (c *Collector) Observe(step int, st lenia.Stats, cells int, took time.Duration) (Record, bool) {
	c.steps++
	c.total += took
	if step != 1 && step%c.every != 0 {
		return Record{}, false
	}
	r := NewRecord(step, st, cells, took)
	c.records = append(c.records, r)
	return r, true
}

// Records returns the kept records.
func (c *Collector) Records() []Record { return c.records }

// Series extracts one column from the kept records.
func (c *Collector) Series(field func(Record) float64) []float64 {
	out := make([]float64, len(c.records))
	for i, r := range c.records {
		out[i] = field(r)
	}
	return out
}

// Mass is a Series selector.
func Mass(r Record) float64 { return r.Mass }

// Summary condenses everything observed so far.
func (c *Collector) Summary() Summary {
	s := Summary{Steps: c.steps, Samples: len(c.records)}
	if c.steps > 0 {
		s.MeanStepMicros = float64(c.total.Microseconds()) / float64(c.steps)
	}
	for _, r := range c.records {
		if r.Mass > s.PeakMass {
			s.PeakMass = r.Mass
			s.PeakStep = r.Step
		}
		if r.NaN > 0 {
			s.NaNSamples++
		}
	}
	if n := len(c.records); n > 0 {
		s.FinalMass = c.records[n-1].Mass
	}
	return s
}
