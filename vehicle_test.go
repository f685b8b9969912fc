package cvtsim

import (
	"errors"
	"math"
	"testing"
)

func TestJ13IsValid(t *testing.T) {
	p := J13()
	if err := p.Validate(); err != nil {
		t.Fatalf("J13 is invalid: %s", err)
	}
	if p.Steps() != 150 {
		t.Fatalf("expected 150 steps, got %d", p.Steps())
	}
}

func TestSteps(t *testing.T) {
	for _, tc := range []struct {
		duration, step float64
		exp            int
	}{
		{10, 0.2, 50}, {30, 0.2, 150}, {1, 0.3, 4}, {0.1, 0.2, 1}, {1, 1, 1},
		{1.1, 0.1, 11}, {0.3, 0.1, 3}, {1e-10, 1, 1}, {1.0000000001, 1, 2}, {2.0000001, 1, 3},
		{29.9999999, 0.2, 150}, {1e6, 1e-3, 1e9},
	} {
		p := J13()
		p.Duration, p.Step = tc.duration, tc.step
		if got := p.Steps(); got != tc.exp {
			t.Fatalf("%f/%f: expected %d steps, got %d", tc.duration, tc.step, tc.exp, got)
		}
	}
}

func TestValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		alter func(*VehicleParameters)
		err   error
	}{
		"radius":    {func(p *VehicleParameters) { p.TireRadius = 0 }, ErrInvalidParameter},
		"gear":      {func(p *VehicleParameters) { p.GearRatio = -1 }, ErrInvalidParameter},
		"mass":      {func(p *VehicleParameters) { p.Mass = math.NaN() }, ErrInvalidParameter},
		"step":      {func(p *VehicleParameters) { p.Step = 0 }, ErrInvalidParameter},
		"duration":  {func(p *VehicleParameters) { p.Duration = math.Inf(1) }, ErrInvalidParameter},
		"drag":      {func(p *VehicleParameters) { p.AeroQuadratic = -0.1 }, ErrInvalidParameter},
		"speed":     {func(p *VehicleParameters) { p.InitialSpeed = -1 }, ErrInvalidParameter},
		"tolerance": {func(p *VehicleParameters) { p.ReachTolerance = -1 }, ErrInvalidParameter},
		"ratio":     {func(p *VehicleParameters) { p.Ratio = 0 }, ErrUnsetOption},
		"roadload":  {func(p *VehicleParameters) { p.RoadLoad = 7 }, ErrUnsetOption},
		"order":     {func(p *VehicleParameters) { p.Order = 0 }, ErrUnsetOption},
		"too long":  {func(p *VehicleParameters) { p.Duration, p.Step = 1e12, 1e-3 }, ErrInvalidParameter},
	} {
		p := J13()
		tc.alter(&p)
		if err := p.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("[%s] expected %s, got %v", name, tc.err, err)
		}
	}
	p := J13()
	p.InitialSpeed = 0
	if err := p.Validate(); err != nil {
		t.Fatalf("zero initial speed must be valid: %s", err)
	}
}

func TestParseOptions(t *testing.T) {
	if f, err := ParseRatioFormula(" Multiply "); err != nil || f != RatioGearMultiplied {
		t.Fatalf("got %s, %v", f, err)
	}
	if m, err := ParseRoadLoadModel("rolling"); err != nil || m != RoadLoadRolling {
		t.Fatalf("got %s, %v", m, err)
	}
	for name, o := range map[string]IntegrationOrder{"first": IntegrationFirst, "second": IntegrationSecond, "RK4": IntegrationRK4} {
		if got, err := ParseIntegrationOrder(name); err != nil || got != o {
			t.Fatalf("%s: got %s, %v", name, got, err)
		}
		if got, _ := ParseIntegrationOrder(o.String()); got != o {
			t.Fatalf("%s does not round trip", o)
		}
	}
	if _, err := ParseRatioFormula(""); !errors.Is(err, ErrUnsetOption) {
		t.Fatalf("empty ratio formula should be unset, got %v", err)
	}
	if _, err := ParseRoadLoadModel(""); !errors.Is(err, ErrUnsetOption) {
		t.Fatalf("empty road load should be unset, got %v", err)
	}
	if _, err := ParseIntegrationOrder("third"); err == nil || errors.Is(err, ErrUnsetOption) {
		t.Fatalf("unknown order should fail, got %v", err)
	}
}
