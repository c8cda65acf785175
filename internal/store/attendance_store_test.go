package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planilla-hr/planilla-api/internal/models"
)

func seedRecord(code, file string) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		Code:          code,
		FullName:      "Juan Perez",
		NationalID:    "44556677",
		MonthlySalary: 3000,
		DailySalary:   100,
		Days: map[int]models.DayCode{
			1: models.DayCodeOnTime,
			2: models.DayCodeLate,
			3: models.DayCodeAbsent,
		},
		OnTime:       1,
		Late:         1,
		Absences:     1,
		ContractType: models.ContractPayroll,
		Pension:      models.PensionAFPIntegra,
		SourceFile:   file,
		ReportName:   "Enero",
		BusinessLine: "CITV",
		Bank:         "BCP",
		Site:         "Lima",
	}
}

func TestEditDayUpdatesCounters(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)

	updated, err := s.EditDay("E001", 2, models.DayCodeAbsent, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	recs, _ := s.List(models.AttendanceFilter{})
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, 0, rec.Late)
	assert.Equal(t, 2, rec.Absences)
	assert.Equal(t, 1, rec.OnTime)
	assert.Equal(t, models.DayCodeAbsent, rec.Days[2])
	// discount: 0 late + 2 absences * 100
	assert.InDelta(t, 200, rec.Discounts, 1e-9)
}

func TestEditDayBroadcastsAcrossFiles(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)
	s.Append("b.xlsx", []*models.AttendanceRecord{seedRecord("E001", "b.xlsx")}, nil)

	updated, err := s.EditDay("E001", 1, models.DayCodeExtraDay, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	recs, _ := s.List(models.AttendanceFilter{})
	for _, rec := range recs {
		assert.Equal(t, 0, rec.OnTime)
		assert.Equal(t, 1, rec.ExtraDays)
	}
}

func TestEditDaySameCodeIsNoop(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)

	_, err := s.EditDay("E001", 2, models.DayCodeLate, 5)
	require.NoError(t, err)
	recs, _ := s.List(models.AttendanceFilter{})
	assert.Equal(t, 1, recs[0].Late)
}

func TestEditDayUnknownCode(t *testing.T) {
	s := New()
	_, err := s.EditDay("NOPE", 1, models.DayCodeAbsent, 5)
	assert.Error(t, err)
}

func TestEditContractResetsPension(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)

	_, err := s.EditContract("E001", models.ContractReceipts, models.PensionAFPIntegra, 5)
	require.NoError(t, err)
	recs, _ := s.List(models.AttendanceFilter{})
	assert.Equal(t, models.PensionNone, recs[0].Pension)

	_, err = s.EditContract("E001", models.ContractPayroll, models.PensionONP, 5)
	require.NoError(t, err)
	recs, _ = s.List(models.AttendanceFilter{})
	assert.Equal(t, models.PensionONP, recs[0].Pension)
}

func TestEditPensionIgnoresReceiptsContracts(t *testing.T) {
	s := New()
	rec := seedRecord("E001", "a.xlsx")
	rec.ContractType = models.ContractReceipts
	rec.Pension = models.PensionNone
	s.Append("a.xlsx", []*models.AttendanceRecord{rec}, nil)

	_, err := s.EditPension("E001", models.PensionONP, 5)
	require.NoError(t, err)
	recs, _ := s.List(models.AttendanceFilter{})
	assert.Equal(t, models.PensionNone, recs[0].Pension)
}

func TestEditBonusRecomputes(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)

	_, err := s.EditBonus("E001", 150, 5)
	require.NoError(t, err)
	recs, _ := s.List(models.AttendanceFilter{})
	// 3000 - (1*5 + 1*100) - 46.5 + 150
	assert.InDelta(t, 2998.5, recs[0].FinalSalary, 1e-9)
}

func TestRemoveFileCascades(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, []models.ValidationError{
		{Key: "11111111", Message: "Empleado no registrado (a.xlsx)"},
	})
	s.Append("b.xlsx", []*models.AttendanceRecord{seedRecord("E002", "b.xlsx")}, []models.ValidationError{
		{Key: "22222222", Message: "Empleado no registrado (b.xlsx)"},
	})

	removed, err := s.RemoveFile("a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	recs, _ := s.List(models.AttendanceFilter{})
	require.Len(t, recs, 1)
	assert.Equal(t, "E002", recs[0].Code)
	assert.Equal(t, []string{"b.xlsx"}, s.Files())

	errs := s.ValidationErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "22222222", errs[0].Key)
}

func TestListFiltersAndPaginates(t *testing.T) {
	s := New()
	a := seedRecord("E001", "a.xlsx")
	b := seedRecord("E002", "a.xlsx")
	b.FullName = "Maria Gomez"
	b.ReportName = "Febrero"
	s.Append("a.xlsx", []*models.AttendanceRecord{a, b}, nil)

	recs, total := s.List(models.AttendanceFilter{Search: "maria"})
	assert.Equal(t, 1, total)
	require.Len(t, recs, 1)
	assert.Equal(t, "E002", recs[0].Code)

	recs, total = s.List(models.AttendanceFilter{Report: "Enero"})
	assert.Equal(t, 1, total)
	assert.Equal(t, "E001", recs[0].Code)

	recs, total = s.List(models.AttendanceFilter{Report: ReportAll, Page: 2, PageSize: 1})
	assert.Equal(t, 2, total)
	require.Len(t, recs, 1)
	assert.Equal(t, "E002", recs[0].Code)
}

func TestListReturnsCopies(t *testing.T) {
	s := New()
	s.Append("a.xlsx", []*models.AttendanceRecord{seedRecord("E001", "a.xlsx")}, nil)

	recs, _ := s.List(models.AttendanceFilter{})
	recs[0].Days[1] = models.DayCodeAbsent
	recs[0].Late = 99

	fresh, _ := s.List(models.AttendanceFilter{})
	assert.Equal(t, models.DayCodeOnTime, fresh[0].Days[1])
	assert.Equal(t, 1, fresh[0].Late)
}

func TestFileErrorLifecycle(t *testing.T) {
	s := New()
	s.RecordFileError("roto.xlsx", "formato de archivo incorrecto")

	errs := s.FileErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, "roto.xlsx", errs[0].File)

	// a successful re-import clears the recorded failure
	s.Append("roto.xlsx", []*models.AttendanceRecord{seedRecord("E001", "roto.xlsx")}, nil)
	assert.Empty(t, s.FileErrors())

	// a failed file with no records can still be removed
	s.RecordFileError("peor.xlsx", "formato de archivo incorrecto")
	removed, err := s.RemoveFile("peor.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Empty(t, s.FileErrors())
}

func TestValidationErrorDismissal(t *testing.T) {
	s := New()
	s.Append("a.xlsx", nil, []models.ValidationError{
		{Key: "11111111", Message: "Empleado no registrado"},
		{Key: "22222222", Message: "Empleado no registrado"},
	})

	require.NoError(t, s.ClearValidationError("11111111"))
	assert.Error(t, s.ClearValidationError("11111111"))
	s.ClearValidationErrors()
	assert.Empty(t, s.ValidationErrors())
}
