// Package integrator provides fixed-step solvers for anything exposing a state vector.
package integrator

// Integrable defines something which can be integrated, i.e. has a state vector.
// WARNING: Implementation must manage its own state based on the iteration.
type Integrable interface {
	GetState() []float64                   // Get the latest state of this integrable.
	SetState(i uint64, s []float64)        // Set the state s after iteration i, s is reused by the solver.
	Stop(i uint64) bool                    // Return whether to stop the integration before iteration i.
	Func(t float64, s []float64) []float64 // Derivative of state s at time t.
}
