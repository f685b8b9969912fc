// Package dataio reads bench curves from tabular files and writes simulation results.
package dataio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ChristopherRabotin/cvtsim"
	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a requested column is not in the header row.
var ErrMissingColumn = errors.New("column not found")

// LoadEngineCurve returns the engine torque curve described by src.
func LoadEngineCurve(src cvtsim.DataSource) (*cvtsim.Curve, error) {
	x, y, err := LoadColumns(src)
	if err != nil {
		return nil, err
	}
	return cvtsim.NewEngineCurve(x, y)
}

// LoadCVTCurve returns the CVT engine speed curve described by src.
func LoadCVTCurve(src cvtsim.DataSource) (*cvtsim.Curve, error) {
	x, y, err := LoadColumns(src)
	if err != nil {
		return nil, err
	}
	return cvtsim.NewCVTCurve(x, y)
}

// LoadColumns reads the X and Y columns of src, picking the format from the file extension.
func LoadColumns(src cvtsim.DataSource) (x, y []float64, err error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".xlsx":
		rows, err = readXLSX(src.Path, src.Sheet)
	case ".csv", ".txt":
		var f *os.File
		if f, err = os.Open(src.Path); err != nil {
			return
		}
		defer f.Close()
		rows, err = readCSV(f)
	default:
		err = fmt.Errorf("%s: unsupported file format", src.Path)
	}
	if err != nil {
		return
	}
	x, y, err = columns(rows, src.XColumn, src.YColumn)
	if err != nil {
		err = fmt.Errorf("%s: %w", src.Path, err)
	}
	return
}

// ParseCSV reads the X and Y columns from CSV data with a header row.
func ParseCSV(r io.Reader, xCol, yCol string) (x, y []float64, err error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}
	return columns(rows, xCol, yCol)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: no sheet", path)
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

// columns extracts two numeric columns by header name. Blank rows are skipped.
func columns(rows [][]string, xCol, yCol string) (x, y []float64, err error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no header row")
	}
	xIdx, yIdx := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case xCol:
			xIdx = i
		case yCol:
			yIdx = i
		}
	}
	if xIdx < 0 {
		return nil, nil, fmt.Errorf("`%s`: %w", xCol, ErrMissingColumn)
	}
	if yIdx < 0 {
		return nil, nil, fmt.Errorf("`%s`: %w", yCol, ErrMissingColumn)
	}
	for lineNo, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if xIdx >= len(row) || yIdx >= len(row) {
			return nil, nil, fmt.Errorf("row %d: too few fields", lineNo+2)
		}
		xVal, xErr := strconv.ParseFloat(strings.TrimSpace(row[xIdx]), 64)
		if xErr != nil {
			return nil, nil, fmt.Errorf("row %d: %w", lineNo+2, xErr)
		}
		yVal, yErr := strconv.ParseFloat(strings.TrimSpace(row[yIdx]), 64)
		if yErr != nil {
			return nil, nil, fmt.Errorf("row %d: %w", lineNo+2, yErr)
		}
		x = append(x, xVal)
		y = append(y, yVal)
	}
	return
}

func blank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
