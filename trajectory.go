package cvtsim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sample is the state of the vehicle at the start of an integration step.
type Sample struct {
	T float64 // time in s
	V float64 // speed in m/s
	D float64 // distance in m
}

// SpeedKmh returns the speed of this sample in km/h.
func (s Sample) SpeedKmh() float64 {
	return s.V / kmh2ms
}

func (s Sample) String() string {
	return fmt.Sprintf("t=%.3fs v=%.3fkm/h d=%.3fm", s.T, s.SpeedKmh(), s.D)
}

// Trajectory is the ordered list of samples of a simulation, one per step.
type Trajectory struct {
	samples []Sample
}

func newTrajectory(capacity int) Trajectory {
	return Trajectory{samples: make([]Sample, 0, capacity)}
}

func (tr *Trajectory) append(s Sample) {
	tr.samples = append(tr.samples, s)
}

// Len returns the number of samples.
func (tr Trajectory) Len() int {
	return len(tr.samples)
}

// At returns the i-th sample.
func (tr Trajectory) At(i int) Sample {
	return tr.samples[i]
}

// Samples returns a copy of all the samples.
func (tr Trajectory) Samples() []Sample {
	rtn := make([]Sample, len(tr.samples))
	copy(rtn, tr.samples)
	return rtn
}

// Times returns the time of each sample in seconds.
func (tr Trajectory) Times() []float64 {
	return tr.column(func(s Sample) float64 { return s.T })
}

// Speeds returns the speed of each sample in m/s.
func (tr Trajectory) Speeds() []float64 {
	return tr.column(func(s Sample) float64 { return s.V })
}

// SpeedsKmh returns the speed of each sample in km/h.
func (tr Trajectory) SpeedsKmh() []float64 {
	return tr.column(Sample.SpeedKmh)
}

// Distances returns the distance of each sample in meters.
func (tr Trajectory) Distances() []float64 {
	return tr.column(func(s Sample) float64 { return s.D })
}

// Dense returns the trajectory as a N x 3 matrix of time, speed (m/s) and distance.
// Returns nil if the trajectory is empty.
func (tr Trajectory) Dense() *mat.Dense {
	if len(tr.samples) == 0 {
		return nil
	}
	data := make([]float64, 0, 3*len(tr.samples))
	for _, s := range tr.samples {
		data = append(data, s.T, s.V, s.D)
	}
	return mat.NewDense(len(tr.samples), 3, data)
}

func (tr Trajectory) column(f func(Sample) float64) []float64 {
	rtn := make([]float64, len(tr.samples))
	for i, s := range tr.samples {
		rtn[i] = f(s)
	}
	return rtn
}
