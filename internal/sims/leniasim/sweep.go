package leniasim

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// SurvivalResult captures how long a pattern stayed alive in a deterministic
// run. A field is alive while some cell is above zero, some cell is below one
// and no cell is NaN.
type SurvivalResult struct {
	// AliveSteps counts steps after which the field was alive.
	AliveSteps int
	// LastAliveStep stores the final step that still had a live field.
	LastAliveStep int
	// StepsSimulated reports how many steps ran before the run ended.
	StepsSimulated int
	PeakMass       float64
	FinalMass      float64
	// NaN is set when the field ever produced a NaN cell.
	NaN bool
}

// SweepRecord is one evaluated candidate.
type SweepRecord struct {
	R      float64
	Dt     float32
	Result SurvivalResult
}

// deadLimit stops a run after this many consecutive dead steps.
const deadLimit = 32

// SurvivalRun builds a Sim from cfg and steps it, measuring the field after
// every step.
func SurvivalRun(ctx context.Context, cfg Config, steps int) (SurvivalResult, error) {
	var result SurvivalResult
	if steps <= 0 {
		return result, nil
	}
	sim, err := New(cfg)
	if err != nil {
		return result, err
	}

	dead := 0
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		sim.Step()
		st := sim.Stats()
		result.StepsSimulated = step
		result.FinalMass = st.Mass
		if st.Mass > result.PeakMass {
			result.PeakMass = st.Mass
		}
		if st.NaN > 0 {
			result.NaN = true
			break
		}
		if st.Max > 0 && st.Min < 1 {
			result.AliveSteps++
			result.LastAliveStep = step
			dead = 0
			continue
		}
		dead++
		if dead >= deadLimit {
			break
		}
	}
	return result, nil
}

// Sweep evaluates every radius/time-step pair concurrently with at most
// workers runs in flight and returns the records ranked best first. Empty
// value lists fall back to the base value. All candidates share one seed.
func Sweep(ctx context.Context, base Config, radii []float64, dts []float32, steps, workers int) ([]SweepRecord, error) {
	if steps <= 0 {
		steps = 400
	}
	if workers <= 0 {
		workers = 1
	}
	if len(radii) == 0 {
		radii = []float64{base.Params.R}
	}
	if len(dts) == 0 {
		dts = []float32{base.Params.Dt}
	}
	if base.Seed == 0 {
		base.Seed = 1
	}

	records := make([]SweepRecord, 0, len(radii)*len(dts))
	for _, r := range radii {
		for _, dt := range dts {
			records = append(records, SweepRecord{R: r, Dt: dt})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			cfg := base
			cfg.Params = base.Params.Clone()
			cfg.Params.R = rec.R
			cfg.Params.Dt = rec.Dt
			res, err := SurvivalRun(ctx, cfg, steps)
			if err != nil {
				return err
			}
			rec.Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return betterResult(records[i].Result, records[j].Result)
	})
	return records, nil
}

func betterResult(a, b SurvivalResult) bool {
	if a.NaN != b.NaN {
		return !a.NaN
	}
	if a.AliveSteps != b.AliveSteps {
		return a.AliveSteps > b.AliveSteps
	}
	if a.LastAliveStep != b.LastAliveStep {
		return a.LastAliveStep > b.LastAliveStep
	}
	return a.FinalMass > b.FinalMass
}
