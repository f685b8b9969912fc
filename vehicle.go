package cvtsim

import (
	"fmt"
	"math"
	"strings"
)

const (
	// Efficiency is the drivetrain propelling efficiency.
	Efficiency = 0.85
	// MinCVTRatio is the lowest mechanical ratio of the CVT.
	MinCVTRatio = 1.0
	// MaxCVTRatio is the highest mechanical ratio of the CVT.
	MaxCVTRatio = 4.0
	// Gravity in m/s^2, used by the rolling coefficient road load.
	Gravity = 9.8
	// DefaultReachTolerance is the default metric reach tolerance in meters.
	DefaultReachTolerance = 0.5
	kmh2ms                = 1 / 3.6
)

// RatioFormula defines how the gear ratio scales the raw CVT ratio.
type RatioFormula uint8

// RoadLoadModel defines the meaning of the resistance constant C.
type RoadLoadModel uint8

// IntegrationOrder defines how speed and distance are advanced at each step.
type IntegrationOrder uint8

const (
	// RatioGearDivided is n·2πR / (60·G·v).
	RatioGearDivided RatioFormula = iota + 1
	// RatioGearMultiplied is n·2πR·G / (60·v).
	RatioGearMultiplied
)

const (
	// RoadLoadForce adds C as a constant force in Newtons.
	RoadLoadForce RoadLoadModel = iota + 1
	// RoadLoadRolling treats C as a rolling coefficient, i.e. adds C·M·g.
	RoadLoadRolling
)

const (
	// IntegrationFirst is d += v·dt with the updated speed.
	IntegrationFirst IntegrationOrder = iota + 1
	// IntegrationSecond is d += v·dt + ½·a·dt² with the updated speed. The increment is floored
	// at zero so that a hard deceleration at low speed never moves the vehicle backwards.
	IntegrationSecond
	// IntegrationRK4 integrates speed and distance with a fourth order Runge-Kutta.
	IntegrationRK4
)

func (f RatioFormula) String() string {
	switch f {
	case RatioGearDivided:
		return "divide"
	case RatioGearMultiplied:
		return "multiply"
	}
	return fmt.Sprintf("RatioFormula(%d)", uint8(f))
}

func (m RoadLoadModel) String() string {
	switch m {
	case RoadLoadForce:
		return "force"
	case RoadLoadRolling:
		return "rolling"
	}
	return fmt.Sprintf("RoadLoadModel(%d)", uint8(m))
}

func (o IntegrationOrder) String() string {
	switch o {
	case IntegrationFirst:
		return "first"
	case IntegrationSecond:
		return "second"
	case IntegrationRK4:
		return "rk4"
	}
	return fmt.Sprintf("IntegrationOrder(%d)", uint8(o))
}

// ParseRatioFormula returns the RatioFormula from its name.
func ParseRatioFormula(s string) (RatioFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "divide":
		return RatioGearDivided, nil
	case "multiply":
		return RatioGearMultiplied, nil
	case "":
		return 0, fmt.Errorf("ratio formula: %w", ErrUnsetOption)
	}
	return 0, fmt.Errorf("unknown ratio formula `%s`", s)
}

// ParseRoadLoadModel returns the RoadLoadModel from its name.
func ParseRoadLoadModel(s string) (RoadLoadModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "force":
		return RoadLoadForce, nil
	case "rolling":
		return RoadLoadRolling, nil
	case "":
		return 0, fmt.Errorf("road load model: %w", ErrUnsetOption)
	}
	return 0, fmt.Errorf("unknown road load model `%s`", s)
}

// ParseIntegrationOrder returns the IntegrationOrder from its name.
func ParseIntegrationOrder(s string) (IntegrationOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return IntegrationFirst, nil
	case "second":
		return IntegrationSecond, nil
	case "rk4":
		return IntegrationRK4, nil
	case "":
		return 0, fmt.Errorf("integration order: %w", ErrUnsetOption)
	}
	return 0, fmt.Errorf("unknown integration order `%s`", s)
}

// VehicleParameters defines the vehicle and how it is simulated.
type VehicleParameters struct {
	Name               string
	TireRadius         float64 // R, dynamic tire radius in m
	GearRatio          float64 // G
	AeroQuadratic      float64 // A, in N/(m/s)^2
	AeroLinear         float64 // B, in N/(m/s)
	ResistanceConstant float64 // C, see RoadLoad
	Mass               float64 // M, in kg
	InitialSpeed       float64 // in m/s
	Duration           float64 // T_max, in s
	Step               float64 // T_step, in s
	ReachTolerance     float64 // in m, see Metric
	Ratio              RatioFormula
	RoadLoad           RoadLoadModel
	Order              IntegrationOrder
}

// J13 returns the J13 prototype parameters, dividing the ratio by the gear ratio and treating C as a force.
func J13() VehicleParameters {
	return VehicleParameters{
		Name:               "J13",
		TireRadius:         0.25,
		GearRatio:          8.5,
		AeroQuadratic:      0.8,
		AeroLinear:         0.01,
		ResistanceConstant: 0.015,
		Mass:               320,
		InitialSpeed:       3 * kmh2ms,
		Duration:           30,
		Step:               0.2,
		ReachTolerance:     DefaultReachTolerance,
		Ratio:              RatioGearDivided,
		RoadLoad:           RoadLoadForce,
		Order:              IntegrationFirst,
	}
}

// stepsTolerance is the relative distance to a whole number of steps under which Duration/Step
// is that whole number, e.g. 30/0.2 or 1.1/0.1.
const stepsTolerance = 1e-12

// maxSteps bounds the length of a trajectory.
const maxSteps = 1 << 30

// Steps returns the number of integration steps, i.e. ceil(Duration/Step).
func (p VehicleParameters) Steps() int {
	n := p.Duration / p.Step
	if whole := math.Round(n); whole >= 1 && math.Abs(n-whole) <= stepsTolerance*n {
		return int(whole)
	}
	return int(math.Ceil(n))
}

// Validate returns an error if any parameter is unusable.
func (p VehicleParameters) Validate() error {
	positive := []struct {
		name string
		val  float64
	}{
		{"tire radius", p.TireRadius},
		{"gear ratio", p.GearRatio},
		{"mass", p.Mass},
		{"duration", p.Duration},
		{"step", p.Step},
	}
	for _, param := range positive {
		if !finite(param.val) || param.val <= 0 {
			return fmt.Errorf("%s must be positive, got %f: %w", param.name, param.val, ErrInvalidParameter)
		}
	}
	nonNegative := []struct {
		name string
		val  float64
	}{
		{"aero quadratic", p.AeroQuadratic},
		{"aero linear", p.AeroLinear},
		{"resistance constant", p.ResistanceConstant},
		{"initial speed", p.InitialSpeed},
		{"reach tolerance", p.ReachTolerance},
	}
	for _, param := range nonNegative {
		if !finite(param.val) || param.val < 0 {
			return fmt.Errorf("%s must be non negative, got %f: %w", param.name, param.val, ErrInvalidParameter)
		}
	}
	if n := p.Duration / p.Step; n > maxSteps {
		return fmt.Errorf("%g steps of %fs exceed %d steps: %w", n, p.Step, maxSteps, ErrInvalidParameter)
	}
	if p.Steps() < 1 {
		return fmt.Errorf("duration %fs must span at least one step: %w", p.Duration, ErrInvalidParameter)
	}
	if p.Ratio != RatioGearDivided && p.Ratio != RatioGearMultiplied {
		return fmt.Errorf("ratio formula %s: %w", p.Ratio, ErrUnsetOption)
	}
	if p.RoadLoad != RoadLoadForce && p.RoadLoad != RoadLoadRolling {
		return fmt.Errorf("road load model %s: %w", p.RoadLoad, ErrUnsetOption)
	}
	if p.Order < IntegrationFirst || p.Order > IntegrationRK4 {
		return fmt.Errorf("integration order %s: %w", p.Order, ErrUnsetOption)
	}
	return nil
}

func (p VehicleParameters) String() string {
	return fmt.Sprintf("%s R=%.3f G=%.3f A=%.4f B=%.4f C=%.4f M=%.1f v0=%.2fkm/h T=%.1fs dt=%.3fs (%s, %s, %s)",
		p.Name, p.TireRadius, p.GearRatio, p.AeroQuadratic, p.AeroLinear, p.ResistanceConstant, p.Mass,
		p.InitialSpeed/kmh2ms, p.Duration, p.Step, p.Ratio, p.RoadLoad, p.Order)
}
