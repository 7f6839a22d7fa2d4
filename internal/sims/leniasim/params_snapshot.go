package leniasim

import (
	"fmt"
	"strconv"

	"lenia/internal/core"
)

// Parameters describes the run for the HUD and the CLI.
func (s *Sim) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	run := core.ParameterGroup{
		Name: "Run",
		Params: []core.Parameter{
			core.StringParam("mode", "Mode", s.cfg.Mode),
			core.IntParam("w", "Width", p.Size.W),
			core.IntParam("h", "Height", p.Size.H),
			core.FloatParam("r", "Kernel radius", p.R),
			core.FloatParam("dt", "Time step", float64(p.Dt)),
			core.BoolParam("parallel", "Parallel channels", p.Parallel),
		},
	}
	if s.initial != nil {
		run.Params = append(run.Params, core.StringParam("image", "Seed image", s.cfg.Image))
	} else {
		run.Params = append(run.Params, core.Int64Param("seed", "Seed", s.seed))
	}

	groups := []core.ParameterGroup{run}
	for i, ch := range p.Channels {
		groups = append(groups, core.ParameterGroup{
			Name:    fmt.Sprintf("Channel %d", i),
			Summary: "shells " + formatShells(ch.Shells),
			Params: []core.Parameter{
				core.FloatParam(fmt.Sprintf("mu%d", i), "Growth mean", float64(ch.Mu)),
				core.FloatParam(fmt.Sprintf("sigma%d", i), "Growth width", float64(ch.Sigma)),
				core.FloatParam(fmt.Sprintf("mass%d", i), "Kernel mass", s.engine.Kernels().Kernel(i).Mass()),
			},
		})
	}
	return core.ParameterSnapshot{Groups: groups}
}

func formatShells(shells []float64) string {
	out := "["
	for i, b := range shells {
		if i > 0 {
			out += " "
		}
		out += strconv.FormatFloat(b, 'g', 4, 64)
	}
	return out + "]"
}
