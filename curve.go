package cvtsim

import (
	"fmt"
	"math"
	"sort"
)

// Curve is a piecewise linear lookup table which extrapolates linearly outside its domain.
// A Curve is immutable once built and safe for concurrent reads.
type Curve struct {
	name string
	x, y []float64
}

// NewCurve returns a new Curve from the provided samples, which are copied and sorted by x.
func NewCurve(name string, x, y []float64) (*Curve, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%s: %w (%d vs %d)", name, ErrSampleMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("%s: %w (got %d)", name, ErrTooFewSamples, len(x))
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return nil, fmt.Errorf("%s: %w at index %d", name, ErrNonFiniteSample, i)
		}
	}
	c := &Curve{name: name, x: make([]float64, len(x)), y: make([]float64, len(y))}
	copy(c.x, x)
	copy(c.y, y)
	sort.Stable(samples{c.x, c.y})
	for i := 1; i < len(c.x); i++ {
		if c.x[i] == c.x[i-1] {
			return nil, fmt.Errorf("%s: %w (x=%f)", name, ErrDuplicateSample, c.x[i])
		}
	}
	return c, nil
}

// NewEngineCurve returns the torque [N·m] vs engine speed [RPM] curve.
func NewEngineCurve(engineSpeed, torque []float64) (*Curve, error) {
	return NewCurve("engine", engineSpeed, torque)
}

// NewCVTCurve returns the engine speed [RPM] vs vehicle speed [m/s] curve.
func NewCVTCurve(vehicleSpeed, engineSpeed []float64) (*Curve, error) {
	return NewCurve("cvt", vehicleSpeed, engineSpeed)
}

// Evaluate returns the interpolated value at x, or the linear extrapolation of the
// nearest boundary segment if x is outside the sample domain.
func (c *Curve) Evaluate(x float64) float64 {
	last := len(c.x) - 1
	var i int
	switch {
	case x == c.x[last]:
		return c.y[last]
	case x < c.x[0]:
		i = 0
	case x > c.x[last]:
		i = last - 1
	case math.IsNaN(x):
		return math.NaN()
	default:
		// Last sample at or before x, the samples are sorted at construction.
		i = sort.Search(len(c.x), func(j int) bool { return c.x[j] > x }) - 1
	}
	x0, x1 := c.x[i], c.x[i+1]
	y0, y1 := c.y[i], c.y[i+1]
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Domain returns the smallest and largest x samples.
func (c *Curve) Domain() (min, max float64) {
	return c.x[0], c.x[len(c.x)-1]
}

// Samples returns copies of the sorted samples.
func (c *Curve) Samples() (x, y []float64) {
	x = make([]float64, len(c.x))
	y = make([]float64, len(c.y))
	copy(x, c.x)
	copy(y, c.y)
	return
}

// Name returns the name of this curve.
func (c *Curve) Name() string {
	return c.name
}

func (c *Curve) String() string {
	min, max := c.Domain()
	return fmt.Sprintf("%s curve (%d samples over [%.3f, %.3f])", c.name, len(c.x), min, max)
}

// Len returns the number of samples.
func (c *Curve) Len() int {
	return len(c.x)
}

// samples sorts paired slices by x.
type samples struct {
	x, y []float64
}

func (s samples) Len() int           { return len(s.x) }
func (s samples) Less(i, j int) bool { return s.x[i] < s.x[j] }
func (s samples) Swap(i, j int) {
	s.x[i], s.x[j] = s.x[j], s.x[i]
	s.y[i], s.y[j] = s.y[j], s.y[i]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
