package dataio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChristopherRabotin/cvtsim"
	kitlog "github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineCSV = `# engine bench S19
Engine Speed [RPM], Corrected Torque [N.m], Power [kW]
3000, 19.5, 6.1
1500, 17.0, 2.7

4500, 18.0, 8.5
`

func simulated(t *testing.T) cvtsim.Result {
	engine, err := cvtsim.NewEngineCurve([]float64{1500, 3000, 4500}, []float64{17, 19.5, 18})
	require.NoError(t, err)
	cvt, err := cvtsim.NewCVTCurve([]float64{0, 5, 15}, []float64{1800, 2800, 4000})
	require.NoError(t, err)
	p := cvtsim.J13()
	p.Duration = 4
	rslt, err := cvtsim.Simulate(p, engine, cvt, kitlog.NewNopLogger())
	require.NoError(t, err)
	return rslt
}

func TestParseCSV(t *testing.T) {
	x, y, err := ParseCSV(strings.NewReader(engineCSV), cvtsim.DefaultEngineSpeedColumn, cvtsim.DefaultTorqueColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{3000, 1500, 4500}, x)
	assert.Equal(t, []float64{19.5, 17, 18}, y)

	_, _, err = ParseCSV(strings.NewReader(engineCSV), "Throttle", cvtsim.DefaultTorqueColumn)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = ParseCSV(strings.NewReader("a,b\n1,x\n"), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	_, _, err = ParseCSV(strings.NewReader(""), "a", "b")
	assert.Error(t, err)
}

func TestLoadEngineCurveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.csv")
	require.NoError(t, os.WriteFile(path, []byte(engineCSV), 0o644))
	curve, err := LoadEngineCurve(cvtsim.DataSource{
		Path:    path,
		XColumn: cvtsim.DefaultEngineSpeedColumn,
		YColumn: cvtsim.DefaultTorqueColumn,
	})
	require.NoError(t, err)
	assert.Equal(t, "engine", curve.Name())
	assert.Equal(t, 3, curve.Len())
	assert.InDelta(t, 18.25, curve.Evaluate(2250), 1e-12)

	_, err = LoadCVTCurve(cvtsim.DataSource{Path: path, XColumn: cvtsim.DefaultVehicleSpeedColumn, YColumn: cvtsim.DefaultEngineSpeedColumn})
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = LoadColumns(cvtsim.DataSource{Path: filepath.Join(t.TempDir(), "engine.json")})
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	rslt := simulated(t)
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, rslt))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Creation date (UTC)"))
	assert.Contains(t, out, "# Time at 30 m (s): ")

	times, dists, err := ParseCSV(strings.NewReader(out), "time_s", "distance_m")
	require.NoError(t, err)
	require.Len(t, times, rslt.Trajectory.Len())
	for i, s := range rslt.Trajectory.Samples() {
		assert.InDelta(t, s.T, times[i], 1e-3)
		assert.InDelta(t, s.D, dists[i], 1e-6)
	}
}

func TestExport(t *testing.T) {
	rslt := simulated(t)
	conf := cvtsim.ExportConfig{Filename: "j13", OutputDir: filepath.Join(t.TempDir(), "out"), CSV: true, XLSX: true}
	files, err := Export(conf, rslt)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(conf.OutputDir, "trajectory-j13.csv"),
		filepath.Join(conf.OutputDir, "trajectory-j13.xlsx"),
	}, files)
	for _, name := range files {
		assert.FileExists(t, name)
	}

	times, speeds, err := LoadColumns(cvtsim.DataSource{Path: files[1], Sheet: "Trajectory", XColumn: "time_s", YColumn: "speed_ms"})
	require.NoError(t, err)
	require.Len(t, times, rslt.Trajectory.Len())
	for i, s := range rslt.Trajectory.Samples() {
		assert.InDelta(t, s.T, times[i], 1e-9)
		assert.InDelta(t, s.V, speeds[i], 1e-9)
	}

	rows, err := readXLSX(files[1], "Metrics")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "speed_kmh", rows[1][0])
	assert.Equal(t, "not reached", rows[1][3])

	files, err = Export(cvtsim.ExportConfig{Filename: "none", OutputDir: conf.OutputDir}, rslt)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, filepath.Join(".", "speed-time-run.png"), Filename(cvtsim.ExportConfig{Filename: "run"}, "speed-time", "png"))
	stamped := Filename(cvtsim.ExportConfig{Filename: "run", OutputDir: "out", Timestamp: true}, "trajectory", "csv")
	assert.True(t, strings.HasPrefix(stamped, filepath.Join("out", "trajectory-run-")))
	assert.True(t, strings.HasSuffix(stamped, ".csv"))
}
