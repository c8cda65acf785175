package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is one tabular export: ordered headers plus one value map per
// row. Cells missing from a row render empty, so ragged payroll rows
// stay aligned under the right header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders a Dataset as plain CSV. The payroll summary is its
// only consumer, so delimiter and quoting are fixed.
type CSVExporter struct{}

// NewCSVExporter constructs the exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the header line followed by one line per row, with cells
// ordered by the dataset headers.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export: dataset has no headers")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("csv export: headers: %w", err)
	}

	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv export: row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv export: flush: %w", err)
	}
	return buf.Bytes(), nil
}
