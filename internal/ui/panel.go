package ui

import (
	"fmt"
	"strings"

	"lenia/internal/core"
	"lenia/internal/lenia"
)

// Status is the live part of the panel.
type Status struct {
	Steps    int
	Paused   bool
	TPS      float64
	HasStats bool
	Stats    lenia.Stats
}

// statsProvider is implemented by sims that expose field statistics.
type statsProvider interface {
	Stats() lenia.Stats
	Steps() int
}

// CurrentStatus reads whatever live figures sim offers.
func CurrentStatus(sim core.Sim, paused bool, tps float64) Status {
	st := Status{Paused: paused, TPS: tps}
	if p, ok := sim.(statsProvider); ok {
		st.HasStats = true
		st.Stats = p.Stats()
		st.Steps = p.Steps()
	}
	return st
}

// Title builds the panel heading for sim.
func Title(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Lenia"
	}
	return "Lenia: " + sim.Name()
}

// PanelLines lays out the panel text top to bottom: title, live status, then
// one block per parameter group.
func PanelLines(title string, snap core.ParameterSnapshot, st Status) []string {
	lines := []string{title, ""}

	state := "running"
	if st.Paused {
		state = "paused"
	}
	lines = append(lines, fmt.Sprintf("%s  %.0f tps", state, st.TPS))
	if st.HasStats {
		lines = append(lines,
			fmt.Sprintf("step   %d", st.Steps),
			fmt.Sprintf("mass   %.1f", st.Stats.Mass),
			fmt.Sprintf("mean   %.4f", st.Stats.Mean),
			fmt.Sprintf("range  %.3f..%.3f", st.Stats.Min, st.Stats.Max),
		)
		if st.Stats.NaN > 0 {
			lines = append(lines, fmt.Sprintf("NaN    %d", st.Stats.NaN))
		}
	}

	for _, g := range snap.Groups {
		lines = append(lines, "", g.Name)
		if g.Summary != "" {
			lines = append(lines, "  "+g.Summary)
		}
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %-18s %s", p.Label, p.Value))
		}
	}
	lines = append(lines, "", strings.Join([]string{"space pause", "n step", "r reset", "s reseed", "q quit"}, "  "))
	return lines
}
