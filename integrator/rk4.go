package integrator

import (
	"errors"
	"fmt"
)

// ErrDimension is returned when a derivative does not match the dimension of the state.
var ErrDimension = errors.New("dimension mismatch")

// RK4 defines a classical fourth order Runge-Kutta integrator with a fixed step.
// The stage buffers are allocated on the first step and reused as long as the
// dimension of the state does not change.
type RK4 struct {
	X0         float64    // The initial x0.
	StepSize   float64    // The step size.
	Integrator Integrable // What is to be integrated.

	k1, k2, k3, k4 []float64
	tmp, next      []float64
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) *RK4 {
	if stepSize <= 0 {
		panic("config StepSize must be positive")
	}
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	return &RK4{X0: x0, StepSize: stepSize, Integrator: inte}
}

// Solve steps the integrable from X0 until it asks to stop.
// Returns the number of iterations performed and the last X_i, or an error.
func (r *RK4) Solve() (uint64, float64, error) {
	var iterNum uint64
	xi := r.X0
	for !r.Integrator.Stop(iterNum) {
		next, err := r.Step(xi, r.Integrator.GetState())
		if err != nil {
			return iterNum, xi, fmt.Errorf("iteration %d: %w", iterNum, err)
		}
		r.Integrator.SetState(iterNum, next)
		iterNum++
		// No accumulation of the step size, which would drift.
		xi = r.X0 + float64(iterNum)*r.StepSize
	}
	return iterNum, xi, nil
}

// Step returns the state one step after state at xi. The returned slice is owned by r and is
// overwritten by the next call.
func (r *RK4) Step(xi float64, state []float64) ([]float64, error) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)
	r.resize(len(state))
	h := r.StepSize
	stages := []struct {
		k    []float64
		dx   float64
		tmpK float64 // weight of this k in the state of the next stage
	}{
		{r.k1, 0, half},
		{r.k2, h * half, half},
		{r.k3, h * half, 1},
		{r.k4, h, 0},
	}
	eval := state
	for _, stage := range stages {
		deriv := r.Integrator.Func(xi+stage.dx, eval)
		if len(deriv) != len(state) {
			return nil, fmt.Errorf("derivative of size %d for a state of size %d: %w", len(deriv), len(state), ErrDimension)
		}
		for i, y := range deriv {
			stage.k[i] = y * h
			r.tmp[i] = state[i] + stage.k[i]*stage.tmpK
		}
		eval = r.tmp
	}
	for i := range state {
		r.next[i] = state[i] + oneSixth*(r.k1[i]+r.k4[i]) + oneThird*(r.k2[i]+r.k3[i])
	}
	return r.next, nil
}

func (r *RK4) resize(n int) {
	if len(r.next) == n {
		return
	}
	buf := make([]float64, 6*n)
	r.k1, r.k2, r.k3, r.k4 = buf[:n:n], buf[n:2*n:2*n], buf[2*n:3*n:3*n], buf[3*n:4*n:4*n]
	r.tmp, r.next = buf[4*n:5*n:5*n], buf[5*n:]
}
