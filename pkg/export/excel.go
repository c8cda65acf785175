package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// MoneyFormat is the currency number format used across all payroll sheets.
const MoneyFormat = `"S/"#,##0.00`

const (
	titleColor = "1F497D"
	headerFill = "4F81BD"
	totalsFill = "F2F2F2"
)

// Workbook wraps excelize with the styling conventions shared by the
// attendance and payroll exports.
type Workbook struct {
	f      *excelize.File
	sheets int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddSheet appends a worksheet. The first sheet replaces the default one.
func (w *Workbook) AddSheet(name string) (*Sheet, error) {
	if w.sheets == 0 {
		defaultName := w.f.GetSheetName(0)
		if err := w.f.SetSheetName(defaultName, name); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
	}
	w.sheets++
	return &Sheet{f: w.f, name: name, nextRow: 1}, nil
}

// Bytes serialises the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Sheet is an append-oriented view over one worksheet.
type Sheet struct {
	f       *excelize.File
	name    string
	nextRow int
}

// Title writes a merged, bold title row across span columns.
func (s *Sheet) Title(text string, span int) error {
	if span < 1 {
		span = 1
	}
	start, _ := excelize.CoordinatesToCellName(1, s.nextRow)
	end, _ := excelize.CoordinatesToCellName(span, s.nextRow)
	if err := s.f.MergeCell(s.name, start, end); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	if err := s.f.SetCellValue(s.name, start, text); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	style, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: titleColor},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	if err := s.f.SetCellStyle(s.name, start, end, style); err != nil {
		return fmt.Errorf("apply title style: %w", err)
	}
	s.nextRow++
	return nil
}

// Row appends one plain row.
func (s *Sheet) Row(values ...interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, s.nextRow)
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return fmt.Errorf("set row: %w", err)
	}
	s.nextRow++
	return nil
}

// HeaderRow appends a bold white-on-blue header row.
func (s *Sheet) HeaderRow(headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	row := s.nextRow
	if err := s.Row(values...); err != nil {
		return err
	}
	style, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	return s.styleRow(row, len(headers), style)
}

// TotalsRow appends a bold row on a light fill, used for TOTALES lines.
func (s *Sheet) TotalsRow(values ...interface{}) error {
	row := s.nextRow
	if err := s.Row(values...); err != nil {
		return err
	}
	style, err := s.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{totalsFill}},
	})
	if err != nil {
		return fmt.Errorf("totals style: %w", err)
	}
	return s.styleRow(row, len(values), style)
}

// SkipRow leaves one row empty.
func (s *Sheet) SkipRow() {
	s.nextRow++
}

// MoneyColumns applies the currency format to whole 1-based columns.
func (s *Sheet) MoneyColumns(cols ...int) error {
	fmtStr := MoneyFormat
	style, err := s.f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}
	for _, col := range cols {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := s.f.SetColStyle(s.name, name, style); err != nil {
			return fmt.Errorf("apply money style: %w", err)
		}
	}
	return nil
}

// ColumnWidths sets widths starting from column A.
func (s *Sheet) ColumnWidths(widths []float64) error {
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := s.f.SetColWidth(s.name, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

// AutoFilter enables filtering over the header row spanning cols columns.
func (s *Sheet) AutoFilter(headerRow, cols int) error {
	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	end, _ := excelize.CoordinatesToCellName(cols, headerRow)
	if err := s.f.AutoFilter(s.name, start+":"+end, nil); err != nil {
		return fmt.Errorf("auto filter: %w", err)
	}
	return nil
}

func (s *Sheet) styleRow(row, cols int, style int) error {
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(cols, row)
	if err := s.f.SetCellStyle(s.name, start, end, style); err != nil {
		return fmt.Errorf("apply row style: %w", err)
	}
	return nil
}
