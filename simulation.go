package cvtsim

import (
	"fmt"
	"math"
	"os"

	"github.com/ChristopherRabotin/cvtsim/integrator"
	kitlog "github.com/go-kit/kit/log"
)

// Status is the state of a Simulation.
type Status uint8

const (
	// NotStarted is the status of a new simulation.
	NotStarted Status = iota
	// Running is the status during integration.
	Running
	// Finished is the status once the trajectory and the metrics are final.
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	panic("cannot stringify unknown simulation status")
}

// RunStats are bookkeeping counters of a run.
type RunStats struct {
	Steps     int     // number of integration steps
	RatioLow  int     // steps where the CVT ratio hit MinCVTRatio
	RatioHigh int     // steps where the CVT ratio hit MaxCVTRatio
	Stalled   bool    // whether the speed was ever floored to zero
	StalledAt float64 // time of the first stall, in s
}

// Result is the output of a simulation run.
type Result struct {
	Params     VehicleParameters
	Trajectory Trajectory
	Metrics    PerformanceMetrics
	Stats      RunStats
}

// Simulation integrates the longitudinal dynamics of a vehicle with a fixed time step.
// A Simulation runs once and is not safe for concurrent use.
type Simulation struct {
	Params      VehicleParameters
	engine, cvt *Curve
	forces      ForceModel
	status      Status
	v, d        float64 // current speed and distance
	step, steps int
	traj        Trajectory
	metrics     *MetricsExtractor
	stats       RunStats
	logger      kitlog.Logger
}

// NewSimulation returns a new Simulation after validating its inputs.
// If logger is nil, logs are written in logfmt to stdout.
func NewSimulation(p VehicleParameters, engine, cvt *Curve, logger kitlog.Logger) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", p.Name, err)
	}
	if engine == nil || cvt == nil {
		return nil, fmt.Errorf("vehicle %s: engine and cvt curves are required: %w", p.Name, ErrTooFewSamples)
	}
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	logger = kitlog.With(logger, "vehicle", p.Name)
	steps := p.Steps()
	return &Simulation{
		Params:  p,
		engine:  engine,
		cvt:     cvt,
		forces:  NewForceModel(p),
		v:       p.InitialSpeed,
		steps:   steps,
		traj:    newTrajectory(steps),
		metrics: NewMetricsExtractor(p.ReachTolerance),
		logger:  logger,
	}, nil
}

// Simulate is a helper which creates and runs a simulation.
func Simulate(p VehicleParameters, engine, cvt *Curve, logger kitlog.Logger) (Result, error) {
	sim, err := NewSimulation(p, engine, cvt, logger)
	if err != nil {
		return Result{}, err
	}
	return sim.Run()
}

// Status returns the status of the simulation.
func (s *Simulation) Status() Status {
	return s.status
}

// Run integrates until the configured duration is reached. It may only be called once.
func (s *Simulation) Run() (Result, error) {
	if s.status != NotStarted {
		return Result{}, ErrAlreadyRun
	}
	s.status = Running
	s.logger.Log("level", "info", "subsys", "sim", "status", "started", "steps", s.steps, "params", s.Params)
	if s.Params.Order == IntegrationRK4 {
		if _, _, err := integrator.NewRK4(0, s.Params.Step, &rk4Propagator{s}).Solve(); err != nil {
			s.status = Finished
			return Result{}, fmt.Errorf("vehicle %s: %w", s.Params.Name, err)
		}
	} else {
		for s.step < s.steps {
			s.eulerStep()
		}
	}
	s.status = Finished
	s.stats.Steps = s.step
	if s.stats.RatioLow+s.stats.RatioHigh > 0 {
		s.logger.Log("level", "info", "subsys", "cvt", "ratioLow", s.stats.RatioLow, "ratioHigh", s.stats.RatioHigh)
	}
	metrics := s.metrics.Metrics()
	s.logger.Log("level", "notice", "subsys", "sim", "status", "finished", "v(km/h)", s.v/kmh2ms, "d(m)", s.d, "metrics", metrics)
	return Result{Params: s.Params, Trajectory: s.traj, Metrics: metrics, Stats: s.stats}, nil
}

func (s *Simulation) time(step int) float64 {
	return float64(step) * s.Params.Step
}

// acceleration returns the acceleration at speed v and whether the CVT ratio saturated.
func (s *Simulation) acceleration(v float64) (float64, int) {
	engineSpeed := s.cvt.Evaluate(v)
	torque := s.engine.Evaluate(engineSpeed)
	ratio, saturated := resolveRatio(v, engineSpeed, s.Params.TireRadius, s.Params.GearRatio, s.Params.Ratio)
	_, acc := s.forces.Compute(torque, ratio, v)
	return acc, saturated
}

// record appends the pre-update state and counts the CVT saturation at that state.
func (s *Simulation) record(t float64, saturated int) {
	s.traj.append(Sample{T: t, V: s.v, D: s.d})
	switch saturated {
	case -1:
		s.stats.RatioLow++
	case 1:
		s.stats.RatioHigh++
	}
}

// floor prevents the vehicle from reversing, returns whether the speed was floored.
func (s *Simulation) floor(t float64) bool {
	if s.v >= 0 {
		return false
	}
	s.v = 0
	if !s.stats.Stalled {
		s.stats.Stalled = true
		s.stats.StalledAt = t
		s.logger.Log("level", "warning", "subsys", "dyn", "status", "stalled", "t(s)", t, "d(m)", s.d)
	}
	return true
}

func (s *Simulation) eulerStep() {
	dt := s.Params.Step
	t := s.time(s.step)
	acc, saturated := s.acceleration(s.v)
	s.record(t, saturated)
	s.v += acc * dt
	if !s.floor(t) {
		Δd := s.v * dt
		if s.Params.Order == IntegrationSecond {
			Δd += 0.5 * acc * dt * dt
		}
		// Distance never decreases, even when braking hard from a low speed.
		s.d += math.Max(0, Δd)
	}
	s.metrics.Observe(t, s.v, s.d)
	s.step++
}

// rk4Propagator integrates [v, d] of a Simulation with the RK4 solver.
type rk4Propagator struct {
	s *Simulation
}

// GetState implements the integrator.Integrable interface.
func (p *rk4Propagator) GetState() []float64 {
	return []float64{p.s.v, p.s.d}
}

// Stop implements the integrator.Integrable interface and records the state before step i.
func (p *rk4Propagator) Stop(i uint64) bool {
	if int(i) >= p.s.steps {
		return true
	}
	_, saturated := p.s.acceleration(p.s.v)
	p.s.record(p.s.time(int(i)), saturated)
	return false
}

// Func implements the integrator.Integrable interface.
func (p *rk4Propagator) Func(t float64, f []float64) []float64 {
	v := math.Max(0, f[0])
	acc, _ := p.s.acceleration(v)
	return []float64{acc, v}
}

// SetState implements the integrator.Integrable interface.
func (p *rk4Propagator) SetState(i uint64, f []float64) {
	t := p.s.time(int(i))
	p.s.v = f[0]
	p.s.floor(t)
	p.s.d = math.Max(p.s.d, f[1])
	p.s.metrics.Observe(t, p.s.v, p.s.d)
	p.s.step++
}
