package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChristopherRabotin/cvtsim"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

const (
	trajectorySheet = "Trajectory"
	metricsSheet    = "Metrics"
)

var trajectoryHeader = []string{"time_s", "speed_ms", "speed_kmh", "distance_m"}

// Export writes the result as configured and returns the paths of the written files.
// PNG charts are handled by the plots package.
func Export(conf cvtsim.ExportConfig, r cvtsim.Result) (files []string, err error) {
	if conf.CSV {
		name := Filename(conf, "trajectory", "csv")
		if err = writeFile(name, func(w io.Writer) error { return WriteCSV(w, r) }); err != nil {
			return
		}
		files = append(files, name)
	}
	if conf.XLSX {
		name := Filename(conf, "trajectory", "xlsx")
		if err = WriteXLSX(name, r); err != nil {
			return
		}
		files = append(files, name)
	}
	return
}

// Filename returns the output path of a file of the given kind and extension.
func Filename(conf cvtsim.ExportConfig, kind, ext string) string {
	dir := conf.OutputDir
	if dir == "" {
		dir = "."
	}
	if conf.Timestamp {
		return filepath.Join(dir, fmt.Sprintf("%s-%s-%s.%s", kind, conf.Filename, time.Now().UTC().Format("2006-01-02T15.04.05"), ext))
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", kind, conf.Filename, ext))
}

func writeFile(name string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the trajectory as CSV, with the vehicle and metrics as comment lines.
func WriteCSV(w io.Writer, r cvtsim.Result) error {
	if _, err := fmt.Fprintf(w, "# Creation date (UTC): %s\n# Vehicle: %s\n", time.Now().UTC(), r.Params); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}
	if dense := r.Trajectory.Dense(); dense != nil {
		rows, _ := dense.Dims()
		row := make([]float64, 3)
		for i := 0; i < rows; i++ {
			mat.Row(row, i, dense)
			if err := cw.Write([]string{
				strconv.FormatFloat(row[0], 'f', 3, 64),
				strconv.FormatFloat(row[1], 'f', 6, 64),
				strconv.FormatFloat(row[1]*3.6, 'f', 6, 64),
				strconv.FormatFloat(row[2], 'f', 6, 64),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "# Speed at %.0f m (km/h): %s\n# Time at %.0f m (s): %s\n",
		cvtsim.SpeedDistance, r.Metrics.SpeedAt100m, cvtsim.AccelerationDistance, r.Metrics.TimeAt30m)
	return err
}

// WriteXLSX writes the trajectory and the metrics into two sheets of an XLSX workbook.
func WriteXLSX(name string, r cvtsim.Result) (err error) {
	if err = os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err = f.NewSheet(trajectorySheet); err != nil {
		return
	}
	if _, err = f.NewSheet(metricsSheet); err != nil {
		return
	}
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return
	}
	header := make([]interface{}, len(trajectoryHeader))
	for i, h := range trajectoryHeader {
		header[i] = h
	}
	if err = f.SetSheetRow(trajectorySheet, "A1", &header); err != nil {
		return
	}
	for i, s := range r.Trajectory.Samples() {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			return cerr
		}
		if err = f.SetSheetRow(trajectorySheet, cell, &[]interface{}{s.T, s.V, s.SpeedKmh(), s.D}); err != nil {
			return
		}
	}
	metrics := [][]interface{}{
		{"metric", "target_m", "reached", "value", "miss_m"},
		metricRow("speed_kmh", r.Metrics.SpeedAt100m),
		metricRow("time_s", r.Metrics.TimeAt30m),
	}
	for i, row := range metrics {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err = f.SetSheetRow(metricsSheet, cell, &row); err != nil {
			return
		}
	}
	return f.SaveAs(name)
}

func metricRow(name string, m cvtsim.Metric) []interface{} {
	var miss interface{} = m.Miss
	if math.IsInf(m.Miss, 0) {
		miss = "n/a"
	}
	if val, ok := m.Value(); ok {
		return []interface{}{name, m.Target, true, val, miss}
	}
	return []interface{}{name, m.Target, false, "not reached", miss}
}
