package cvtsim

import (
	"fmt"
	"math"
)

const (
	// AccelerationDistance is the distance of the acceleration test, in m.
	AccelerationDistance = 30.0
	// SpeedDistance is the distance of the top speed test, in m.
	SpeedDistance = 100.0
)

// Metric is the value recorded at the sample nearest to a target distance.
// A Metric is reached if a sample went past its target, or if the nearest one is within tolerance.
type Metric struct {
	Target  float64 // target distance in m
	Nearest float64 // value at the nearest sample, best effort
	Miss    float64 // |d - Target| at the nearest sample, +Inf if nothing was observed
	Reached bool
}

// Value returns the metric value and whether it was reached.
func (m Metric) Value() (float64, bool) {
	if !m.Reached {
		return 0, false
	}
	return m.Nearest, true
}

func (m Metric) String() string {
	if !m.Reached {
		if math.IsInf(m.Miss, 1) {
			return "not reached"
		}
		return fmt.Sprintf("not reached (nearest %.3f, %.3fm away)", m.Nearest, m.Miss)
	}
	return fmt.Sprintf("%.3f", m.Nearest)
}

// PerformanceMetrics are the acceleration test results.
type PerformanceMetrics struct {
	SpeedAt100m Metric // km/h
	TimeAt30m   Metric // s
}

func (m PerformanceMetrics) String() string {
	return fmt.Sprintf("speed@100m=%s km/h time@30m=%s s", m.SpeedAt100m, m.TimeAt30m)
}

// nearest is a running minimizer of |d - target|.
type nearest struct {
	target, miss, value float64
	crossed             bool
}

func newNearest(target float64) nearest {
	return nearest{target: target, miss: math.Inf(1)}
}

func (n *nearest) observe(d, value float64) {
	if d >= n.target {
		n.crossed = true
	}
	if diff := math.Abs(d - n.target); diff < n.miss {
		n.miss = diff
		n.value = value
	}
}

func (n nearest) metric(tolerance float64) Metric {
	return Metric{Target: n.target, Nearest: n.value, Miss: n.miss, Reached: n.crossed || n.miss <= tolerance}
}

// MetricsExtractor tracks the samples nearest to the 30 m and 100 m marks during integration.
type MetricsExtractor struct {
	tolerance float64
	speed100  nearest
	time30    nearest
}

// NewMetricsExtractor returns a new MetricsExtractor with the provided reach tolerance in meters.
func NewMetricsExtractor(tolerance float64) *MetricsExtractor {
	return &MetricsExtractor{tolerance, newNearest(SpeedDistance), newNearest(AccelerationDistance)}
}

// Observe feeds a new sample: t is the time at the start of the step, v and d are the updated speed and distance.
func (m *MetricsExtractor) Observe(t, v, d float64) {
	m.speed100.observe(d, v/kmh2ms)
	m.time30.observe(d, t)
}

// Metrics returns the metrics as of the last observation.
func (m *MetricsExtractor) Metrics() PerformanceMetrics {
	return PerformanceMetrics{SpeedAt100m: m.speed100.metric(m.tolerance), TimeAt30m: m.time30.metric(m.tolerance)}
}
