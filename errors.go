package cvtsim

import "errors"

// Configuration errors. All of them are returned before any integration step runs.
var (
	// ErrTooFewSamples is returned when a curve has less than two samples.
	ErrTooFewSamples = errors.New("curve needs at least two samples")
	// ErrSampleMismatch is returned when the x and y sample slices differ in length.
	ErrSampleMismatch = errors.New("curve x and y samples differ in length")
	// ErrDuplicateSample is returned when two samples share the same x.
	ErrDuplicateSample = errors.New("curve has duplicate x samples")
	// ErrNonFiniteSample is returned for NaN or infinite samples.
	ErrNonFiniteSample = errors.New("curve has a non finite sample")
	// ErrInvalidParameter flags an out of range vehicle or simulation parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsetOption flags a model option which must be chosen explicitly.
	ErrUnsetOption = errors.New("model option not set")
	// ErrAlreadyRun is returned when Run is called on a finished simulation.
	ErrAlreadyRun = errors.New("simulation already run")
)
