package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
)

func exportFixture() *ExportService {
	st := seedReportStore()
	reports := NewReportService(st)
	settings := &fakeSettings{settings: models.DefaultSettings()}
	return NewExportService(st, reports, settings, nil, zap.NewNop())
}

func TestAttendanceExportWorkbook(t *testing.T) {
	svc := exportFixture()

	file, err := svc.Attendance(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Name, "Planilla_Asistencias_"))
	assert.Equal(t, contentTypeXLSX, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Planilla de Asistencias", "Resumen de Pagos"}, wb.GetSheetList())

	title, err := wb.GetCellValue("Planilla de Asistencias", "A1")
	require.NoError(t, err)
	assert.Equal(t, "PLANILLA DE ASISTENCIAS", title)

	// header row sits below title and the three info rows
	header, err := wb.GetCellValue("Planilla de Asistencias", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Código", header)

	rows, err := wb.GetRows("Planilla de Asistencias")
	require.NoError(t, err)
	// title + 3 info rows + blank + header + 3 records + blank + footer
	assert.Len(t, rows, 11)
}

func TestPayrollExportFormats(t *testing.T) {
	svc := exportFixture()

	xlsxFile, err := svc.Payroll(context.Background(), models.AttendanceFilter{}, FormatXLSX)
	require.NoError(t, err)
	wb, err := excelize.OpenReader(bytes.NewReader(xlsxFile.Data))
	require.NoError(t, err)
	defer wb.Close()
	header, err := wb.GetCellValue("Resumen de Pagos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "NOMBRES Y APELLIDOS", header)

	csvFile, err := svc.Payroll(context.Background(), models.AttendanceFilter{}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, contentTypeCSV, csvFile.ContentType)
	lines := strings.Split(strings.TrimSpace(string(csvFile.Data)), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NETO A PAGAR")

	pdfFile, err := svc.Payroll(context.Background(), models.AttendanceFilter{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, contentTypePDF, pdfFile.ContentType)
	assert.True(t, bytes.HasPrefix(pdfFile.Data, []byte("%PDF")))

	_, err = svc.Payroll(context.Background(), models.AttendanceFilter{}, ExportFormat("docx"))
	assert.Error(t, err)
}

func TestAnalyticsExportSheets(t *testing.T) {
	svc := exportFixture()

	file, err := svc.Analytics(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{
		"Resumen General",
		"Análisis por Rubro",
		"Análisis por Banco",
		"Análisis por Sede",
		"Detalle Completo",
	}, wb.GetSheetList())

	rows, err := wb.GetRows("Análisis por Rubro")
	require.NoError(t, err)
	// title + header + 2 groups + TOTALES
	require.Len(t, rows, 5)
	assert.Equal(t, "TOTALES", rows[4][0])

	detail, err := wb.GetRows("Detalle Completo")
	require.NoError(t, err)
	assert.Len(t, detail, 4)
}

func TestSiteBanksExport(t *testing.T) {
	svc := exportFixture()

	file, err := svc.SiteBanks(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Resumen_Sede_Banco.xlsx", file.Name)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Sede y Banco")
	require.NoError(t, err)
	// header + 2 Lima banks + 1 Arequipa bank
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Sede", "Banco", "Total", "Porcentaje"}, rows[0][:4])
	assert.True(t, strings.HasSuffix(rows[1][3], "%"))
}

func TestExportEmptyStore(t *testing.T) {
	st := store.New()
	svc := NewExportService(st, NewReportService(st), &fakeSettings{settings: models.DefaultSettings()}, nil, zap.NewNop())

	file, err := svc.Attendance(context.Background(), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
}
