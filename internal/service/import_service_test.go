package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
	"github.com/planilla-hr/planilla-api/pkg/jobs"
)

type fakeRoster struct {
	byDNI  map[string]*models.RosterRecord
	byName map[string]*models.RosterRecord
	broken map[string]error
}

func (f *fakeRoster) FindByNationalID(_ context.Context, dni string) (*models.RosterRecord, error) {
	if err, ok := f.broken[dni]; ok {
		return nil, err
	}
	if rec, ok := f.byDNI[dni]; ok {
		return rec, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRoster) SearchByName(_ context.Context, name string) (*models.RosterRecord, error) {
	if rec, ok := f.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return rec, nil
	}
	return nil, sql.ErrNoRows
}

type fakeSettings struct {
	settings models.Settings
	raisedTo int
}

func (f *fakeSettings) Current(context.Context) (models.Settings, error) {
	return f.settings, nil
}

func (f *fakeSettings) RaiseDaysInMonth(_ context.Context, days int) error {
	f.raisedTo = days
	f.settings.DaysInMonth = days
	return nil
}

func importFixture(roster *fakeRoster) (*ImportService, *store.Store, *fakeSettings) {
	st := store.New()
	settings := &fakeSettings{settings: models.DefaultSettings()}
	svc := NewImportService(roster, st, settings, nil, jobs.QueueConfig{Logger: zap.NewNop()}, zap.NewNop())
	return svc, st, settings
}

func registeredWorker() *models.RosterRecord {
	plan := models.PensionAFPPrima
	hire := "01/02/2023"
	return &models.RosterRecord{
		NationalID:    "44556677",
		FullName:      "JUAN PEREZ",
		Occupation:    "CONDUCTOR",
		Salary:        2800,
		Site:          "Callao",
		Company:       "Transporte Andino",
		BusinessLine:  "CITV",
		Bank:          "BCP",
		ContractType:  models.ContractPayroll,
		Pension:       &plan,
		HireDate:      &hire,
		AccountNumber: "191-12345",
		Active:        true,
	}
}

func importGrid(rows ...[]string) [][]string {
	grid := [][]string{
		{"MES DE ENERO 2024"},
		{"Codigo", "Nombre", "DNI", "Ocupacion", "Sueldo", "Diario", "Dia1", "Dia2", "Dia3"},
	}
	return append(grid, rows...)
}

func TestProcessFileImportsRegisteredRows(t *testing.T) {
	roster := &fakeRoster{byDNI: map[string]*models.RosterRecord{"44556677": registeredWorker()}}
	svc, st, _ := importFixture(roster)

	grid := importGrid([]string{"E001", "JUAN PEREZ", "44556677", "", "3,000.00", "100", "PU", "TA", "FA"})
	outcome, rows, failures, err := svc.processFile(context.Background(), "ReportePlanillaResumen_Enero.xlsx", grid)
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 0, failures)

	recs, _ := st.List(models.AttendanceFilter{})
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "E001", rec.Code)
	assert.Equal(t, "JUAN PEREZ", rec.FullName)
	assert.Equal(t, "Enero", rec.ReportName)
	assert.Equal(t, "ENERO", rec.Month)
	assert.Equal(t, "Callao", rec.Site)
	assert.Equal(t, "CITV", rec.BusinessLine)
	assert.Equal(t, models.PensionAFPPrima, rec.Pension)
	assert.Equal(t, "01/02/2023", rec.HireDate)
	// roster salary wins over the sheet cell
	assert.InDelta(t, 2800, rec.MonthlySalary, 1e-9)
	assert.Equal(t, 1, rec.OnTime)
	assert.Equal(t, 1, rec.Late)
	assert.Equal(t, 1, rec.Absences)
	// 2800 - (1*5 + 1*100) - 2800*0.016
	assert.InDelta(t, 2650.2, rec.FinalSalary, 1e-9)
}

func TestProcessFileRecordsValidationError(t *testing.T) {
	roster := &fakeRoster{}
	svc, st, _ := importFixture(roster)

	grid := importGrid([]string{"E009", "DESCONOCIDO TOTAL", "99999999", "", "1000", "40", "PU", "PU", "PU"})
	outcome, rows, failures, err := svc.processFile(context.Background(), "pagos.xlsx", grid)
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome)
	assert.Equal(t, 0, rows)
	assert.Equal(t, 1, failures)

	recs, _ := st.List(models.AttendanceFilter{})
	assert.Empty(t, recs)
	errs := st.ValidationErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "99999999", errs[0].Key)
	assert.Contains(t, errs[0].Message, "DESCONOCIDO TOTAL")
	assert.Contains(t, errs[0].Message, "pagos.xlsx")
}

func TestProcessFileFallsBackToNameLookup(t *testing.T) {
	worker := registeredWorker()
	roster := &fakeRoster{byName: map[string]*models.RosterRecord{"juan perez": worker}}
	svc, st, _ := importFixture(roster)

	grid := importGrid([]string{"E001", "JUAN PEREZ", "00000000", "", "", "", "PU", "PU", "PU"})
	_, rows, failures, err := svc.processFile(context.Background(), "a.xlsx", grid)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 0, failures)

	recs, _ := st.List(models.AttendanceFilter{})
	require.Len(t, recs, 1)
	// roster identity wins over the sheet DNI
	assert.Equal(t, "44556677", recs[0].NationalID)
	// roster salary; empty daily cell falls back to monthly/days
	assert.InDelta(t, 2800, recs[0].MonthlySalary, 1e-9)
	assert.InDelta(t, 100, recs[0].DailySalary, 1e-9)
}

func TestProcessFileContinuesPastLookupFailure(t *testing.T) {
	roster := &fakeRoster{
		byDNI:  map[string]*models.RosterRecord{"44556677": registeredWorker()},
		broken: map[string]error{"55555555": errors.New("connection refused")},
	}
	svc, st, _ := importFixture(roster)

	grid := importGrid(
		[]string{"E001", "SIN SUERTE", "55555555", "", "1000", "40", "PU", "PU", "PU"},
		[]string{"E002", "JUAN PEREZ", "44556677", "", "", "", "PU", "PU", "PU"},
	)
	outcome, rows, failures, err := svc.processFile(context.Background(), "enero.xlsx", grid)
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, failures)

	recs, _ := st.List(models.AttendanceFilter{})
	require.Len(t, recs, 1)
	assert.Equal(t, "E002", recs[0].Code)

	errs := st.ValidationErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "55555555", errs[0].Key)
	assert.Contains(t, errs[0].Message, "base de datos")
}

func TestProcessFileFormatError(t *testing.T) {
	svc, st, _ := importFixture(&fakeRoster{})

	outcome, _, _, err := svc.processFile(context.Background(), "roto.xlsx", [][]string{{"sin encabezado"}})
	require.Error(t, err)
	assert.Equal(t, "format_error", outcome)
	assert.Empty(t, st.Files())

	fileErrs := st.FileErrors()
	require.Len(t, fileErrs, 1)
	assert.Equal(t, "roto.xlsx", fileErrs[0].File)
	assert.Contains(t, fileErrs[0].Message, "Codigo")
}

func TestProcessFileRaisesDaysInMonth(t *testing.T) {
	roster := &fakeRoster{byDNI: map[string]*models.RosterRecord{"44556677": registeredWorker()}}
	svc, _, settings := importFixture(roster)

	header := []string{"Codigo", "Nombre", "DNI", "Ocupacion", "Sueldo", "Diario"}
	row := []string{"E001", "JUAN PEREZ", "44556677", "", "3000", "100"}
	for d := 1; d <= 30; d++ {
		header = append(header, "Dia"+strconv.Itoa(d))
		row = append(row, "PU")
	}
	grid := [][]string{{"MES DE ABRIL"}, header, row}

	_, _, _, err := svc.processFile(context.Background(), "abril.xlsx", grid)
	require.NoError(t, err)
	assert.Equal(t, 30, settings.raisedTo)
}

func TestSubmitRejectsDuplicateFile(t *testing.T) {
	svc, st, _ := importFixture(&fakeRoster{})
	st.Append("enero.xlsx", nil, nil)

	err := svc.Submit("enero.xlsx", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya fue cargado")
}

func TestReportNameFromFile(t *testing.T) {
	assert.Equal(t, "Enero", ReportNameFromFile("ReportePlanillaResumen_Enero.xlsx"))
	assert.Equal(t, "pagos", ReportNameFromFile("pagos.xls"))
	assert.Equal(t, "custom", ReportNameFromFile("custom"))
}
