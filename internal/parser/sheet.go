// Package parser turns the raw cell grid of one attendance sheet into
// normalized rows. The importer assumes the single fixed template used by
// the upstream payroll reports: a month marker in the first rows, a header
// row starting with "Codigo" and one "Dia<N>" column per calendar day.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

const (
	monthMarker  = "MES DE"
	headerCell   = "Codigo"
	dayPrefix    = "Dia"
	dayColOffset = 6

	// DefaultMonth labels sheets without a month marker.
	DefaultMonth = "SIN MES"

	monthScanRows = 5
)

// Row is one normalized data row from the sheet.
type Row struct {
	Index         int
	Code          string
	FullName      string
	NationalID    string
	Occupation    string
	MonthlySalary float64
	DailySalary   float64
	DayCodes      []models.DayCode
}

// Sheet is the parsed result of one import file.
type Sheet struct {
	Month    string
	DayCount int
	Rows     []Row
}

// ReadWorkbook extracts the first sheet of an XLSX workbook as a cell grid.
func ReadWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	return rows, nil
}

// ParseSheet scans the grid in a single pass: month marker, header row,
// then data rows until the first row with an empty first cell. A missing
// header row is a format error that aborts the whole file.
func ParseSheet(grid [][]string) (*Sheet, error) {
	sheet := &Sheet{Month: extractMonth(grid)}

	headerIdx := -1
	for i, row := range grid {
		if len(row) > 0 && row[0] == headerCell {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, appErrors.Clone(appErrors.ErrFormat, "header row not found: first cell must be \"Codigo\"")
	}

	for _, cell := range grid[headerIdx] {
		if isDayHeader(cell) {
			sheet.DayCount++
		}
	}

	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			break
		}
		sheet.Rows = append(sheet.Rows, parseRow(row, i, sheet.DayCount))
	}

	return sheet, nil
}

func parseRow(row []string, index, dayCount int) Row {
	r := Row{
		Index:         index,
		Code:          cell(row, 0),
		FullName:      cell(row, 1),
		NationalID:    cell(row, 2),
		Occupation:    cell(row, 3),
		MonthlySalary: numCell(row, 4),
		DailySalary:   numCell(row, 5),
		DayCodes:      make([]models.DayCode, 0, dayCount),
	}
	for d := 0; d < dayCount; d++ {
		r.DayCodes = append(r.DayCodes, models.ParseDayCode(cell(row, dayColOffset+d)))
	}
	return r
}

// extractMonth looks for the month marker in the first rows and strips the
// marker prefix plus any digits from the remainder.
func extractMonth(grid [][]string) string {
	limit := monthScanRows
	if len(grid) < limit {
		limit = len(grid)
	}
	for i := 0; i < limit; i++ {
		joined := strings.Join(grid[i], "")
		if !strings.Contains(strings.ToUpper(joined), monthMarker) {
			continue
		}
		line := strings.Join(grid[i], " ")
		upper := strings.ToUpper(line)
		if at := strings.LastIndex(upper, monthMarker); at >= 0 {
			line = line[at+len(monthMarker):]
		}
		line = strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return -1
			}
			return r
		}, line)
		if month := strings.TrimSpace(line); month != "" {
			return month
		}
		return DefaultMonth
	}
	return DefaultMonth
}

// isDayHeader matches "Dia<N>" exactly: the prefix followed by digits
// only. The template's "Diario" salary column must not count as a day.
func isDayHeader(header string) bool {
	rest := strings.TrimPrefix(header, dayPrefix)
	if rest == header || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func numCell(row []string, idx int) float64 {
	raw := cell(row, idx)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
