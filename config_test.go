package cvtsim

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const scenarioTOML = `
[vehicle]
name = "J13"
tire_radius = 0.25
gear_ratio = 8.5
aero_quadratic = 0.8
aero_linear = 0.01
resistance_constant = 0.015
mass = 320

[model]
ratio = "divide"
road_load = "force"

[simulation]
initial_speed = 3.0
duration = 30.0
step = 0.2
integration = "first"

[data]
engine = "engine_data_S19.csv"
cvt = "/data/cvt_ideal.xlsx"
cvt_sheet = "bench"

[export]
csv = true
`

func writeScenario(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("err: %s", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, scenarioTOML)
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	exp := J13()
	got := sc.Vehicle
	if !scalar.EqualWithinAbs(got.InitialSpeed, exp.InitialSpeed, 1e-12) {
		t.Fatalf("initial speed %f != %f", got.InitialSpeed, exp.InitialSpeed)
	}
	got.InitialSpeed = exp.InitialSpeed
	if got != exp {
		t.Fatalf("\ngot %s\nexp %s", got, exp)
	}
	if sc.Engine.Path != filepath.Join(filepath.Dir(path), "engine_data_S19.csv") {
		t.Fatalf("engine path was not made relative to the scenario: %s", sc.Engine.Path)
	}
	if sc.Engine.XColumn != DefaultEngineSpeedColumn || sc.Engine.YColumn != DefaultTorqueColumn {
		t.Fatalf("incorrect default engine columns %s", sc.Engine)
	}
	if sc.CVT.Path != "/data/cvt_ideal.xlsx" || sc.CVT.Sheet != "bench" {
		t.Fatalf("incorrect cvt source %+v", sc.CVT)
	}
	if sc.CVT.XColumn != DefaultVehicleSpeedColumn || sc.CVT.YColumn != DefaultEngineSpeedColumn {
		t.Fatalf("incorrect default cvt columns %s", sc.CVT)
	}
	if !sc.Export.CSV || sc.Export.XLSX || sc.Export.Filename != "J13" || sc.Export.IsUseless() {
		t.Fatalf("incorrect export %+v", sc.Export)
	}
}

func TestLoadScenarioEnvOverride(t *testing.T) {
	t.Setenv("CVTSIM_VEHICLE_MASS", "400")
	t.Setenv("CVTSIM_SIMULATION_INTEGRATION", "rk4")
	sc, err := LoadScenario(writeScenario(t, scenarioTOML))
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if sc.Vehicle.Mass != 400 || sc.Vehicle.Order != IntegrationRK4 {
		t.Fatalf("environment was ignored: %s", sc.Vehicle)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	noRatio := strings.Replace(scenarioTOML, `ratio = "divide"`, "", 1)
	if _, err := LoadScenario(writeScenario(t, noRatio)); !errors.Is(err, ErrUnsetOption) {
		t.Fatalf("expected ErrUnsetOption, got %v", err)
	}
	noOrder := strings.Replace(scenarioTOML, `integration = "first"`, "", 1)
	if _, err := LoadScenario(writeScenario(t, noOrder)); !errors.Is(err, ErrUnsetOption) {
		t.Fatalf("expected ErrUnsetOption, got %v", err)
	}
	noMass := strings.Replace(scenarioTOML, "mass = 320", "", 1)
	if _, err := LoadScenario(writeScenario(t, noMass)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
