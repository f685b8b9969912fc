package cvtsim

import (
	"errors"
	"testing"

	kitlog "github.com/go-kit/kit/log"
)

func TestSweepMatchesSequentialRuns(t *testing.T) {
	engine, cvt := flatCurves(t, 100)
	base := closedFormVehicle(IntegrationFirst)
	base.AeroQuadratic, base.AeroLinear = 0.8, 0.01
	variants, err := Disperse(base, Dispersion{Mass: 10, AeroQuadratic: 0.05}, 12)
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if len(variants) != 12 {
		t.Fatalf("expected 12 variants, got %d", len(variants))
	}
	names := map[string]bool{}
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			t.Fatalf("invalid variant %s: %s", v, err)
		}
		if v.AeroLinear != base.AeroLinear || v.GearRatio != base.GearRatio {
			t.Fatalf("undispersed parameter changed: %s", v)
		}
		names[v.Name] = true
	}
	if len(names) != 12 {
		t.Fatal("variant names are not unique")
	}
	results := Sweep(variants, engine, cvt, 3, kitlog.NewNopLogger())
	for i, rslt := range results {
		if rslt.Err != nil {
			t.Fatalf("[%d] err: %s", i, rslt.Err)
		}
		if rslt.Index != i || rslt.Params != variants[i] {
			t.Fatalf("[%d] results out of order", i)
		}
		seq := run(t, variants[i], engine, cvt)
		if seq.Metrics != rslt.Metrics || seq.Trajectory.Len() != rslt.Trajectory.Len() {
			t.Fatalf("[%d] sweep result differs from a sequential run", i)
		}
	}
}

func TestSweepReportsErrors(t *testing.T) {
	engine, cvt := flatCurves(t, 100)
	bad := closedFormVehicle(IntegrationFirst)
	bad.Mass = -1
	results := Sweep([]VehicleParameters{closedFormVehicle(IntegrationFirst), bad}, engine, cvt, 0, nil)
	if results[0].Err != nil {
		t.Fatalf("err: %s", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", results[1].Err)
	}
}

func TestDisperseErrors(t *testing.T) {
	base := closedFormVehicle(IntegrationFirst)
	if _, err := Disperse(base, Dispersion{}, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter without any dispersion, got %v", err)
	}
	if _, err := Disperse(base, Dispersion{Mass: -1}, 5); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for a negative sigma, got %v", err)
	}
	base.Order = 0
	if _, err := Disperse(base, Dispersion{Mass: 1}, 5); !errors.Is(err, ErrUnsetOption) {
		t.Fatalf("expected ErrUnsetOption, got %v", err)
	}
}
