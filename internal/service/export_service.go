package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
	"github.com/planilla-hr/planilla-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
	contentTypePDF  = "application/pdf"
)

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders the downloadable workbooks. Sheet layouts mirror
// the reports the payroll team already distributes, so column sets and
// labels are fixed.
type ExportService struct {
	store    *store.Store
	reports  *ReportService
	settings settingsProvider
	storage  exportStorage
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(st *store.Store, reports *ReportService, settings settingsProvider, storage exportStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:    st,
		reports:  reports,
		settings: settings,
		storage:  storage,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Attendance renders the day-grid workbook: a "Planilla de Asistencias"
// sheet with one column per calendar day plus the "Resumen de Pagos"
// companion sheet.
func (s *ExportService) Attendance(ctx context.Context, filter models.AttendanceFilter) (*ExportFile, error) {
	records, _ := s.store.List(noPagination(filter))
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	wb := export.NewWorkbook()
	if err := s.attendanceSheet(wb, records, settings); err != nil {
		return nil, err
	}
	if err := s.payrollSheet(wb, records, settings); err != nil {
		return nil, err
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, err
	}
	return s.finish(fmt.Sprintf("Planilla_Asistencias_%s.xlsx", datestamp()), contentTypeXLSX, data)
}

// Payroll renders the "Resumen de Pagos" summary in the requested format.
func (s *ExportService) Payroll(ctx context.Context, filter models.AttendanceFilter, format ExportFormat) (*ExportFile, error) {
	records, _ := s.store.List(noPagination(filter))
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX, "":
		wb := export.NewWorkbook()
		if err := s.payrollSheet(wb, records, settings); err != nil {
			return nil, err
		}
		data, err := wb.Bytes()
		if err != nil {
			return nil, err
		}
		return s.finish(fmt.Sprintf("Resumen_Pagos_%s.xlsx", datestamp()), contentTypeXLSX, data)
	case FormatCSV:
		data, err := s.csv.Render(payrollDataset(records, settings))
		if err != nil {
			return nil, err
		}
		return s.finish(fmt.Sprintf("Resumen_Pagos_%s.csv", datestamp()), contentTypeCSV, data)
	case FormatPDF:
		data, err := s.pdf.Render(payrollDataset(records, settings), "Resumen de Pagos")
		if err != nil {
			return nil, err
		}
		return s.finish(fmt.Sprintf("Resumen_Pagos_%s.pdf", datestamp()), contentTypePDF, data)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("formato no soportado: %s", format))
	}
}

// Analytics renders the multi-sheet analytic workbook: general summary,
// one analysis sheet per grouping and the full detail sheet.
func (s *ExportService) Analytics(ctx context.Context, filter models.AttendanceFilter) (*ExportFile, error) {
	records, _ := s.store.List(noPagination(filter))
	byLine := s.reports.ByBusinessLine(filter)
	byBank := s.reports.ByBank(filter)
	bySite := s.reports.BySite(filter)

	wb := export.NewWorkbook()
	if err := summarySheet(wb, len(records), byLine, byBank, bySite); err != nil {
		return nil, err
	}
	if err := analysisSheet(wb, "Análisis por Rubro", "Rubros", byLine); err != nil {
		return nil, err
	}
	if err := analysisSheet(wb, "Análisis por Banco", "Bancos", byBank); err != nil {
		return nil, err
	}
	if err := analysisSheet(wb, "Análisis por Sede", "Sedes", bySite); err != nil {
		return nil, err
	}
	if err := detailSheet(wb, records); err != nil {
		return nil, err
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, err
	}
	return s.finish(fmt.Sprintf("Reporte_Analitico_%s.xlsx", datestamp()), contentTypeXLSX, data)
}

// SiteBanks renders the per-site bank share workbook.
func (s *ExportService) SiteBanks(ctx context.Context, filter models.AttendanceFilter) (*ExportFile, error) {
	shares := s.reports.SiteBankShares(filter)

	wb := export.NewWorkbook()
	sheet, err := wb.AddSheet("Sede y Banco")
	if err != nil {
		return nil, err
	}
	if err := sheet.HeaderRow([]string{"Sede", "Banco", "Total", "Porcentaje"}); err != nil {
		return nil, err
	}
	for _, site := range shares {
		for _, bank := range site.Banks {
			if err := sheet.Row(site.Site, bank.Bank, bank.Total, fmt.Sprintf("%.2f%%", bank.Percentage)); err != nil {
				return nil, err
			}
		}
	}
	if err := sheet.MoneyColumns(3); err != nil {
		return nil, err
	}
	if err := sheet.ColumnWidths([]float64{20, 20, 15, 15}); err != nil {
		return nil, err
	}

	data, err := wb.Bytes()
	if err != nil {
		return nil, err
	}
	return s.finish("Resumen_Sede_Banco.xlsx", contentTypeXLSX, data)
}

func (s *ExportService) finish(name, contentType string, data []byte) (*ExportFile, error) {
	if s.storage != nil {
		if _, err := s.storage.Save(name, data); err != nil {
			s.logger.Warn("could not persist export copy", zap.String("file", name), zap.Error(err))
		}
	}
	s.logger.Info("export generated", zap.String("file", name), zap.Int("bytes", len(data)))
	return &ExportFile{Name: name, ContentType: contentType, Data: data}, nil
}

func (s *ExportService) attendanceSheet(wb *export.Workbook, records []models.AttendanceRecord, settings models.Settings) error {
	sheet, err := wb.AddSheet("Planilla de Asistencias")
	if err != nil {
		return err
	}

	headers := []string{"Código", "Empleado", "DNI", "Cargo", "Sede", "Planilla", "Pensión",
		"Sueldo Mensual", "Sueldo Diario", "Inicio Labores"}
	for d := 1; d <= settings.DaysInMonth; d++ {
		headers = append(headers, fmt.Sprintf("D%d", d))
	}
	headers = append(headers, "Puntual", "Tardanza", "Faltas", "Descuentos", "Bono Extra", "Sueldo Final", "Reporte", "Archivo")

	if err := sheet.Title("PLANILLA DE ASISTENCIAS", len(headers)); err != nil {
		return err
	}
	if err := sheet.Row("Fuente:", strings.Join(s.store.Files(), ", ")); err != nil {
		return err
	}
	if err := sheet.Row("Reportes:", strings.Join(s.store.Reports(), ", ")); err != nil {
		return err
	}
	if err := sheet.Row("Descuento Tardanza:", fmt.Sprintf("S/%.2f", settings.LateDiscount)); err != nil {
		return err
	}
	sheet.SkipRow()
	if err := sheet.HeaderRow(headers); err != nil {
		return err
	}

	for i := range records {
		rec := &records[i]
		values := []interface{}{
			rec.Code, rec.FullName, rec.NationalID, rec.Occupation, rec.Site,
			contractLabel(rec.ContractType), pensionLabel(rec.Pension),
			rec.MonthlySalary, rec.DailySalary, orNA(rec.HireDate),
		}
		for d := 1; d <= settings.DaysInMonth; d++ {
			code, ok := rec.Days[d]
			if !ok {
				code = models.DayCodeNotWorkable
			}
			values = append(values, string(code))
		}
		values = append(values, rec.OnTime, rec.Late, rec.Absences,
			rec.Discounts, rec.Bonus, rec.FinalSalary, rec.ReportName, rec.SourceFile)
		if err := sheet.Row(values...); err != nil {
			return err
		}
	}

	sheet.SkipRow()
	if err := sheet.Row(fmt.Sprintf("Exportado: %s", time.Now().Format("02/01/2006 15:04"))); err != nil {
		return err
	}

	widths := []float64{8, 25, 10, 20, 10, 12, 10, 15, 15, 12}
	for d := 0; d < settings.DaysInMonth; d++ {
		widths = append(widths, 4)
	}
	widths = append(widths, 8, 8, 8, 12, 12, 12, 15, 30)
	return sheet.ColumnWidths(widths)
}

var payrollHeaders = []string{
	"NOMBRES Y APELLIDOS",
	"COD. EMPRESA - SEDE",
	"CARGO",
	"INICIO LABORES",
	"SUELDO FIJO",
	"BONO FIJO VARIABLE",
	"N° FALTAS (DESCUENTO)",
	"N° TARDANZAS (DESCUENTO)",
	"DESC. PLANILLA",
	"NETO A PAGAR (S/.)",
	"BANCO",
	"N° CUENTA",
	"CONDICIÓN",
}

func (s *ExportService) payrollSheet(wb *export.Workbook, records []models.AttendanceRecord, settings models.Settings) error {
	sheet, err := wb.AddSheet("Resumen de Pagos")
	if err != nil {
		return err
	}
	if err := sheet.Title("RESUMEN DE PAGOS", len(payrollHeaders)); err != nil {
		return err
	}
	if err := sheet.HeaderRow(payrollHeaders); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		if err := sheet.Row(
			rec.FullName,
			fmt.Sprintf("%s - %s", companyInitials(rec.Company), rec.Site),
			rec.Occupation,
			orNA(rec.HireDate),
			rec.MonthlySalary,
			rec.Bonus,
			absencesCell(rec),
			lateCell(rec, settings.LateDiscount),
			pensionDiscountCell(rec),
			rec.FinalSalary,
			rec.Bank,
			rec.AccountNumber,
			"Falta",
		); err != nil {
			return err
		}
	}
	if err := sheet.MoneyColumns(5, 6, 10); err != nil {
		return err
	}
	return sheet.ColumnWidths([]float64{25, 20, 20, 15, 15, 18, 18, 18, 18, 15, 15, 15, 12})
}

func payrollDataset(records []models.AttendanceRecord, settings models.Settings) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		rows = append(rows, map[string]string{
			"NOMBRES Y APELLIDOS":      rec.FullName,
			"COD. EMPRESA - SEDE":      fmt.Sprintf("%s - %s", companyInitials(rec.Company), rec.Site),
			"CARGO":                    rec.Occupation,
			"INICIO LABORES":           orNA(rec.HireDate),
			"SUELDO FIJO":              fmt.Sprintf("%.2f", rec.MonthlySalary),
			"BONO FIJO VARIABLE":       fmt.Sprintf("%.2f", rec.Bonus),
			"N° FALTAS (DESCUENTO)":    absencesCell(rec),
			"N° TARDANZAS (DESCUENTO)": lateCell(rec, settings.LateDiscount),
			"DESC. PLANILLA":           pensionDiscountCell(rec),
			"NETO A PAGAR (S/.)":       fmt.Sprintf("%.2f", rec.FinalSalary),
			"BANCO":                    rec.Bank,
			"N° CUENTA":                rec.AccountNumber,
			"CONDICIÓN":                "Falta",
		})
	}
	return export.Dataset{Headers: payrollHeaders, Rows: rows}
}

func summarySheet(wb *export.Workbook, employeeCount int, byLine, byBank, bySite []models.GroupSummary) error {
	sheet, err := wb.AddSheet("Resumen General")
	if err != nil {
		return err
	}
	if err := sheet.Title("REPORTE ANALÍTICO COMPLETO", 6); err != nil {
		return err
	}
	if err := sheet.Row("Fecha de exportación:", time.Now().Format("02/01/2006")); err != nil {
		return err
	}
	if err := sheet.Row("Total empleados:", employeeCount); err != nil {
		return err
	}
	sheet.SkipRow()
	if err := sheet.HeaderRow([]string{"Rubro", "Bancos", "Sedes", "Total Sueldos", "Total Descuentos", "Total Final"}); err != nil {
		return err
	}

	// the groupings are zipped side by side, one line per rank
	rows := len(byLine)
	if len(byBank) > rows {
		rows = len(byBank)
	}
	if len(bySite) > rows {
		rows = len(bySite)
	}
	for i := 0; i < rows; i++ {
		var line, bank, site models.GroupSummary
		if i < len(byLine) {
			line = byLine[i]
		}
		if i < len(byBank) {
			bank = byBank[i]
		}
		if i < len(bySite) {
			site = bySite[i]
		}
		if err := sheet.Row(
			line.Name, bank.Name, site.Name,
			line.TotalSalaries+bank.TotalSalaries+site.TotalSalaries,
			line.TotalDiscounts+bank.TotalDiscounts+site.TotalDiscounts,
			line.TotalFinal+bank.TotalFinal+site.TotalFinal,
		); err != nil {
			return err
		}
	}
	if err := sheet.MoneyColumns(4, 5, 6); err != nil {
		return err
	}
	return sheet.ColumnWidths([]float64{20, 20, 20, 18, 18, 18})
}

func analysisSheet(wb *export.Workbook, sheetName, title string, groups []models.GroupSummary) error {
	sheet, err := wb.AddSheet(sheetName)
	if err != nil {
		return err
	}
	if err := sheet.Title(fmt.Sprintf("Análisis por %s", title), 6); err != nil {
		return err
	}
	if err := sheet.HeaderRow([]string{"Nombre", "Empleados", "Sueldos", "Descuentos", "Bonos", "Total"}); err != nil {
		return err
	}
	totals := models.GroupSummary{Name: "TOTALES"}
	for _, g := range groups {
		if err := sheet.Row(g.Name, g.EmployeeCount, g.TotalSalaries, g.TotalDiscounts, g.TotalBonuses, g.TotalFinal); err != nil {
			return err
		}
		totals.EmployeeCount += g.EmployeeCount
		totals.TotalSalaries += g.TotalSalaries
		totals.TotalDiscounts += g.TotalDiscounts
		totals.TotalBonuses += g.TotalBonuses
		totals.TotalFinal += g.TotalFinal
	}
	if err := sheet.TotalsRow(totals.Name, totals.EmployeeCount, totals.TotalSalaries, totals.TotalDiscounts, totals.TotalBonuses, totals.TotalFinal); err != nil {
		return err
	}
	if err := sheet.MoneyColumns(3, 4, 5, 6); err != nil {
		return err
	}
	if err := sheet.ColumnWidths([]float64{30, 12, 16, 16, 16, 16}); err != nil {
		return err
	}
	return sheet.AutoFilter(2, 6)
}

func detailSheet(wb *export.Workbook, records []models.AttendanceRecord) error {
	sheet, err := wb.AddSheet("Detalle Completo")
	if err != nil {
		return err
	}
	if err := sheet.HeaderRow([]string{"Empleado", "DNI", "Sueldo Final", "Rubro", "Banco", "Sede", "Reporte"}); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		if err := sheet.Row(rec.FullName, rec.NationalID, rec.FinalSalary, rec.BusinessLine, rec.Bank, rec.Site, rec.ReportName); err != nil {
			return err
		}
	}
	if err := sheet.MoneyColumns(3); err != nil {
		return err
	}
	if err := sheet.ColumnWidths([]float64{30, 12, 16, 20, 20, 15, 25}); err != nil {
		return err
	}
	return sheet.AutoFilter(1, 7)
}

func contractLabel(ct models.ContractType) string {
	if ct == models.ContractPayroll {
		return "Planilla"
	}
	return "Honorarios"
}

func pensionLabel(plan models.PensionPlan) string {
	if plan == "" || plan == models.PensionNone {
		return "N/A"
	}
	return string(plan)
}

func absencesCell(rec *models.AttendanceRecord) string {
	if rec.Absences == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (-S/.%.2f)", rec.Absences, float64(rec.Absences)*rec.DailySalary)
}

func lateCell(rec *models.AttendanceRecord, lateDiscount float64) string {
	if rec.Late == 0 {
		return "0"
	}
	return fmt.Sprintf("%d (-S/.%.2f)", rec.Late, float64(rec.Late)*lateDiscount)
}

func pensionDiscountCell(rec *models.AttendanceRecord) string {
	rate := rec.Pension.Rate()
	if rec.ContractType != models.ContractPayroll || rate == 0 {
		return "S/.0.00"
	}
	return fmt.Sprintf("S/.%.2f (%s)", rec.MonthlySalary*rate, rec.Pension)
}

func companyInitials(company string) string {
	if company == "" {
		return ""
	}
	var b strings.Builder
	for _, word := range strings.Fields(company) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return strings.ToUpper(b.String())
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func datestamp() string {
	return time.Now().Format("2006-01-02")
}
