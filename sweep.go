package cvtsim

import (
	"fmt"
	"runtime"
	"sync"

	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

const maxDispersionDraws = 100

// SweepResult is the outcome of one run of a sweep.
type SweepResult struct {
	Index int
	Result
	Err error
}

// Sweep runs one independent simulation per provided vehicle, on at most cpus goroutines
// (all CPUs if cpus <= 0). Results are in the same order as params.
// The curves are only read, so they are shared by all runs.
func Sweep(params []VehicleParameters, engine, cvt *Curve, cpus int, logger kitlog.Logger) []SweepResult {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if cpus <= 0 || cpus > runtime.NumCPU() {
		cpus = runtime.NumCPU()
	}
	logger.Log("level", "info", "subsys", "sweep", "runs", len(params), "cpus", cpus)
	results := make([]SweepResult, len(params))
	cpuChan := make(chan struct{}, cpus)
	var wg sync.WaitGroup
	for i, p := range params {
		wg.Add(1)
		cpuChan <- struct{}{}
		go func(i int, p VehicleParameters) {
			defer func() {
				<-cpuChan
				wg.Done()
			}()
			rslt, err := Simulate(p, engine, cvt, kitlog.NewNopLogger())
			results[i] = SweepResult{Index: i, Result: rslt, Err: err}
			if err != nil {
				logger.Log("level", "warning", "subsys", "sweep", "run", i, "err", err)
			}
		}(i, p)
	}
	wg.Wait()
	return results
}

// Dispersion holds the standard deviations of the dispersed parameters. A zero value disables
// the dispersion of that parameter.
type Dispersion struct {
	Mass          float64 // kg
	AeroQuadratic float64
	AeroLinear    float64
}

// Disperse returns n variants of base where the dispersed parameters are drawn from
// independent normal distributions centered on the base values. Draws leading to an invalid
// vehicle (e.g. a negative mass) are discarded.
func Disperse(base VehicleParameters, sigma Dispersion, n int) ([]VehicleParameters, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	var mu, variances []float64
	var fields []func(*VehicleParameters) *float64
	for _, d := range []struct {
		σ     float64
		field func(*VehicleParameters) *float64
	}{
		{sigma.Mass, func(p *VehicleParameters) *float64 { return &p.Mass }},
		{sigma.AeroQuadratic, func(p *VehicleParameters) *float64 { return &p.AeroQuadratic }},
		{sigma.AeroLinear, func(p *VehicleParameters) *float64 { return &p.AeroLinear }},
	} {
		if d.σ < 0 {
			return nil, fmt.Errorf("dispersion must be non negative, got %f: %w", d.σ, ErrInvalidParameter)
		}
		if d.σ == 0 {
			continue
		}
		mu = append(mu, *d.field(&base))
		variances = append(variances, d.σ*d.σ)
		fields = append(fields, d.field)
	}
	if len(mu) == 0 {
		return nil, fmt.Errorf("no parameter dispersed: %w", ErrInvalidParameter)
	}
	cov := mat.NewSymDense(len(variances), nil)
	for i, σ2 := range variances {
		cov.SetSym(i, i, σ2)
	}
	dist, ok := distmv.NewNormal(mu, cov, nil)
	if !ok {
		return nil, fmt.Errorf("dispersion covariance is not positive definite: %w", ErrInvalidParameter)
	}
	variants := make([]VehicleParameters, 0, n)
	draw := make([]float64, len(mu))
	for len(variants) < n {
		var variant VehicleParameters
		valid := false
		for try := 0; try < maxDispersionDraws && !valid; try++ {
			dist.Rand(draw)
			variant = base
			for i, field := range fields {
				*field(&variant) = draw[i]
			}
			valid = variant.Validate() == nil
		}
		if !valid {
			return nil, fmt.Errorf("no valid draw after %d tries: %w", maxDispersionDraws, ErrInvalidParameter)
		}
		variant.Name = fmt.Sprintf("%s-%d", base.Name, len(variants))
		variants = append(variants, variant)
	}
	return variants, nil
}
