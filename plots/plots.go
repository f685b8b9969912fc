// Package plots renders simulation trajectories as PNG charts or terminal charts.
package plots

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/ChristopherRabotin/cvtsim"
	"github.com/ChristopherRabotin/cvtsim/dataio"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 8 * vg.Inch
	height = 6 * vg.Inch
)

var (
	red   = color.RGBA{R: 220, A: 255}
	green = color.RGBA{G: 160, A: 255}
	blue  = color.RGBA{B: 200, A: 255}
)

// Save writes the speed vs time, speed vs distance and distance vs time charts of r as PNG files.
// Returns the paths of the written files.
func Save(conf cvtsim.ExportConfig, r cvtsim.Result) ([]string, error) {
	charts := []struct {
		kind  string
		build func(cvtsim.Result) (*plot.Plot, error)
	}{
		{"speed-time", SpeedTime},
		{"speed-distance", SpeedDistance},
		{"distance-time", DistanceTime},
	}
	files := make([]string, 0, len(charts))
	for _, chart := range charts {
		p, err := chart.build(r)
		if err != nil {
			return files, fmt.Errorf("%s: %w", chart.kind, err)
		}
		name := dataio.Filename(conf, chart.kind, "png")
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return files, err
		}
		if err := p.Save(width, height, name); err != nil {
			return files, fmt.Errorf("%s: %w", chart.kind, err)
		}
		files = append(files, name)
	}
	return files, nil
}

// SpeedTime returns the chart of the speed (km/h) over time.
func SpeedTime(r cvtsim.Result) (*plot.Plot, error) {
	tr := r.Trajectory
	p := newPlot("Vehicle speed over time", "Time [s]", "Speed [km/h]")
	p.X.Min, p.X.Max = 0, r.Params.Duration
	p.Y.Min = 0
	if _, err := addLine(p, tr.Times(), tr.SpeedsKmh(), blue); err != nil {
		return nil, err
	}
	return p, nil
}

// SpeedDistance returns the chart of the speed (km/h) over the distance traveled.
func SpeedDistance(r cvtsim.Result) (*plot.Plot, error) {
	tr := r.Trajectory
	p := newPlot("Vehicle speed over distance", "Distance [m]", "Speed [km/h]")
	p.Y.Min = 0
	if _, err := addLine(p, tr.Distances(), tr.SpeedsKmh(), blue); err != nil {
		return nil, err
	}
	return p, nil
}

// DistanceTime returns the chart of the distance over time, with the 30 m and 100 m marks.
func DistanceTime(r cvtsim.Result) (*plot.Plot, error) {
	tr := r.Trajectory
	p := newPlot("Vehicle distance over time", "Time [s]", "Distance [m]")
	p.X.Min, p.X.Max = 0, r.Params.Duration
	line, err := addLine(p, tr.Times(), tr.Distances(), blue)
	if err != nil {
		return nil, err
	}
	p.Legend.Add("Distance", line)
	for _, mark := range []struct {
		dist float64
		c    color.Color
	}{{cvtsim.AccelerationDistance, red}, {cvtsim.SpeedDistance, green}} {
		dist := mark.dist
		fn := plotter.NewFunction(func(float64) float64 { return dist })
		fn.Color = mark.c
		fn.Width = vg.Points(1.5)
		fn.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(fn)
		p.Legend.Add(fmt.Sprintf("%.0f m", dist), fn)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// ASCII returns a terminal chart of the speed (km/h) over the run.
func ASCII(r cvtsim.Result, cols, rows int) string {
	speeds := r.Trajectory.SpeedsKmh()
	if len(speeds) == 0 {
		return ""
	}
	return asciigraph.Plot(speeds, asciigraph.Width(cols), asciigraph.Height(rows),
		asciigraph.Caption(fmt.Sprintf("%s speed [km/h] over %.1fs", r.Params.Name, r.Params.Duration)))
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, xs, ys []float64, c color.Color) (*plotter.Line, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("plot data invalid")
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Color = c
	points.Radius = vg.Points(2)
	p.Add(line, points)
	return line, nil
}
