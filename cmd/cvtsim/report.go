package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChristopherRabotin/cvtsim"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Width(22).Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func summary(r cvtsim.Result) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(r.Params.Name) + "\n")
	line := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	line(fmt.Sprintf("Speed at %.0f m", cvtsim.SpeedDistance), metric(r.Metrics.SpeedAt100m, "km/h"))
	line(fmt.Sprintf("Time at %.0f m", cvtsim.AccelerationDistance), metric(r.Metrics.TimeAt30m, "s"))
	if n := r.Trajectory.Len(); n > 0 {
		last := r.Trajectory.At(n - 1)
		line("Last sample", last.String())
	}
	line("CVT ratio at bounds", fmt.Sprintf("%d low, %d high of %d steps", r.Stats.RatioLow, r.Stats.RatioHigh, r.Stats.Steps))
	if r.Stats.Stalled {
		s.WriteString(warnStyle.Render(fmt.Sprintf("stalled at t=%.2fs", r.Stats.StalledAt)) + "\n")
	}
	return s.String()
}

func metric(m cvtsim.Metric, unit string) string {
	if val, ok := m.Value(); ok {
		return fmt.Sprintf("%.3f %s", val, unit)
	}
	return m.String()
}

func sweepSummary(results []cvtsim.SweepResult) string {
	var speeds, times []float64
	failed, missed := 0, 0
	for _, rslt := range results {
		if rslt.Err != nil {
			failed++
			continue
		}
		speed, okSpeed := rslt.Metrics.SpeedAt100m.Value()
		time, okTime := rslt.Metrics.TimeAt30m.Value()
		if !okSpeed || !okTime {
			missed++
			continue
		}
		speeds = append(speeds, speed)
		times = append(times, time)
	}
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("Dispersions (%d runs)", len(results))) + "\n")
	line := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	if len(speeds) > 0 {
		μ, σ := stat.MeanStdDev(speeds, nil)
		line(fmt.Sprintf("Speed at %.0f m", cvtsim.SpeedDistance), fmt.Sprintf("%.3f ± %.3f km/h", μ, nanZero(σ)))
		μ, σ = stat.MeanStdDev(times, nil)
		line(fmt.Sprintf("Time at %.0f m", cvtsim.AccelerationDistance), fmt.Sprintf("%.3f ± %.3f s", μ, nanZero(σ)))
	}
	if missed > 0 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("%d runs did not reach a target", missed)) + "\n")
	}
	if failed > 0 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("%d runs failed", failed)) + "\n")
	}
	return s.String()
}

// nanZero maps the NaN standard deviation of a single run to zero.
func nanZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
