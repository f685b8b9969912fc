package cvtsim

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ScenarioEnv is the environment variable holding the scenario path, used when none is provided.
const ScenarioEnv = "CVTSIM_SCENARIO"

// Default column names of the bench data files.
const (
	DefaultEngineSpeedColumn  = "Engine Speed [RPM]"
	DefaultTorqueColumn       = "Corrected Torque [N.m]"
	DefaultVehicleSpeedColumn = "Vehicle Speed [m/s]"
)

// DataSource describes where a curve is read from by its loader.
type DataSource struct {
	Path    string // .csv or .xlsx
	Sheet   string // xlsx only, first sheet if empty
	XColumn string
	YColumn string
}

func (d DataSource) String() string {
	return fmt.Sprintf("%s[%s -> %s]", d.Path, d.XColumn, d.YColumn)
}

// ExportConfig configures the exporting of a simulation.
type ExportConfig struct {
	Filename  string
	OutputDir string
	CSV       bool
	XLSX      bool
	PNG       bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.CSV && !c.XLSX && !c.PNG
}

// Scenario is a fully parsed scenario file.
type Scenario struct {
	Vehicle VehicleParameters
	Engine  DataSource
	CVT     DataSource
	Export  ExportConfig
}

// LoadScenario reads a scenario file (TOML, YAML or JSON). Any key may be overridden through
// the environment, e.g. CVTSIM_VEHICLE_MASS for vehicle.mass.
// Relative data paths are relative to the scenario file.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CVTSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setScenarioDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	sc, err := scenarioFromViper(v)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, src := range []*DataSource{&sc.Engine, &sc.CVT} {
		if src.Path != "" && !filepath.IsAbs(src.Path) {
			src.Path = filepath.Join(dir, src.Path)
		}
	}
	return sc, nil
}

func setScenarioDefaults(v *viper.Viper) {
	v.SetDefault("vehicle.name", "vehicle")
	v.SetDefault("simulation.initial_speed", 3.0)
	v.SetDefault("simulation.duration", 30.0)
	v.SetDefault("simulation.step", 0.2)
	v.SetDefault("metrics.tolerance", DefaultReachTolerance)
	v.SetDefault("data.engine_speed_col", DefaultEngineSpeedColumn)
	v.SetDefault("data.torque_col", DefaultTorqueColumn)
	v.SetDefault("data.vehicle_speed_col", DefaultVehicleSpeedColumn)
	v.SetDefault("data.cvt_engine_speed_col", DefaultEngineSpeedColumn)
	v.SetDefault("export.outdir", ".")
}

func scenarioFromViper(v *viper.Viper) (sc Scenario, err error) {
	p := VehicleParameters{
		Name:               v.GetString("vehicle.name"),
		TireRadius:         v.GetFloat64("vehicle.tire_radius"),
		GearRatio:          v.GetFloat64("vehicle.gear_ratio"),
		AeroQuadratic:      v.GetFloat64("vehicle.aero_quadratic"),
		AeroLinear:         v.GetFloat64("vehicle.aero_linear"),
		ResistanceConstant: v.GetFloat64("vehicle.resistance_constant"),
		Mass:               v.GetFloat64("vehicle.mass"),
		InitialSpeed:       v.GetFloat64("simulation.initial_speed") * kmh2ms,
		Duration:           v.GetFloat64("simulation.duration"),
		Step:               v.GetFloat64("simulation.step"),
		ReachTolerance:     v.GetFloat64("metrics.tolerance"),
	}
	if p.Ratio, err = ParseRatioFormula(v.GetString("model.ratio")); err != nil {
		return
	}
	if p.RoadLoad, err = ParseRoadLoadModel(v.GetString("model.road_load")); err != nil {
		return
	}
	if p.Order, err = ParseIntegrationOrder(v.GetString("simulation.integration")); err != nil {
		return
	}
	if err = p.Validate(); err != nil {
		return
	}
	sc.Vehicle = p
	sc.Engine = DataSource{
		Path:    v.GetString("data.engine"),
		Sheet:   v.GetString("data.engine_sheet"),
		XColumn: v.GetString("data.engine_speed_col"),
		YColumn: v.GetString("data.torque_col"),
	}
	sc.CVT = DataSource{
		Path:    v.GetString("data.cvt"),
		Sheet:   v.GetString("data.cvt_sheet"),
		XColumn: v.GetString("data.vehicle_speed_col"),
		YColumn: v.GetString("data.cvt_engine_speed_col"),
	}
	sc.Export = ExportConfig{
		Filename:  v.GetString("export.filename"),
		OutputDir: v.GetString("export.outdir"),
		CSV:       v.GetBool("export.csv"),
		XLSX:      v.GetBool("export.xlsx"),
		PNG:       v.GetBool("export.png"),
		Timestamp: v.GetBool("export.timestamp"),
	}
	if sc.Export.Filename == "" {
		sc.Export.Filename = p.Name
	}
	return
}
