package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
)

func seedReportStore() *store.Store {
	st := store.New()
	st.Append("enero.xlsx", []*models.AttendanceRecord{
		{Code: "E001", FullName: "A", MonthlySalary: 3000, Discounts: 100, Bonus: 50, FinalSalary: 2950,
			BusinessLine: "CITV", Bank: "BCP", Site: "Lima", ReportName: "Enero"},
		{Code: "E002", FullName: "B", MonthlySalary: 2000, Discounts: 0, Bonus: 0, FinalSalary: 2000,
			BusinessLine: "Revisiones", Bank: "Interbank", Site: "Lima", ReportName: "Enero"},
		{Code: "E003", FullName: "C", MonthlySalary: 1500, Discounts: 200, Bonus: 0, FinalSalary: 1300,
			BusinessLine: "CITV", Bank: "BCP", Site: "Arequipa", ReportName: "Febrero"},
	}, nil)
	return st
}

func TestByBusinessLineSortedByTotalFinal(t *testing.T) {
	svc := NewReportService(seedReportStore())

	groups := svc.ByBusinessLine(models.AttendanceFilter{})
	require.Len(t, groups, 2)
	assert.Equal(t, "CITV", groups[0].Name)
	assert.Equal(t, 2, groups[0].EmployeeCount)
	assert.InDelta(t, 4500, groups[0].TotalSalaries, 1e-9)
	assert.InDelta(t, 300, groups[0].TotalDiscounts, 1e-9)
	assert.InDelta(t, 50, groups[0].TotalBonuses, 1e-9)
	assert.InDelta(t, 4250, groups[0].TotalFinal, 1e-9)
	assert.Equal(t, "Revisiones", groups[1].Name)
}

func TestByBankRespectsReportFilter(t *testing.T) {
	svc := NewReportService(seedReportStore())

	groups := svc.ByBank(models.AttendanceFilter{Report: "Enero"})
	require.Len(t, groups, 2)
	assert.Equal(t, "BCP", groups[0].Name)
	assert.InDelta(t, 2950, groups[0].TotalFinal, 1e-9)
}

func TestBySourceTotals(t *testing.T) {
	svc := NewReportService(seedReportStore())

	totals := svc.BySource(models.AttendanceFilter{})
	require.Len(t, totals, 2)
	assert.Equal(t, "Enero", totals[0].Name)
	assert.Equal(t, 2, totals[0].EmployeeCount)
	assert.InDelta(t, 4950, totals[0].TotalFinal, 1e-9)
}

func TestSiteBankShares(t *testing.T) {
	svc := NewReportService(seedReportStore())

	shares := svc.SiteBankShares(models.AttendanceFilter{})
	require.Len(t, shares, 2)

	lima := shares[0]
	assert.Equal(t, "Lima", lima.Site)
	require.Len(t, lima.Banks, 2)
	assert.Equal(t, "BCP", lima.Banks[0].Bank)
	assert.InDelta(t, 2950, lima.Banks[0].Total, 1e-9)
	assert.InDelta(t, 59.5959595959, lima.Banks[0].Percentage, 1e-6)

	var sum float64
	for _, b := range lima.Banks {
		sum += b.Percentage
	}
	assert.InDelta(t, 100, sum, 1e-9)

	assert.Equal(t, "Arequipa", shares[1].Site)
	require.Len(t, shares[1].Banks, 1)
	assert.InDelta(t, 100, shares[1].Banks[0].Percentage, 1e-9)
}

func TestGroupFallbackName(t *testing.T) {
	st := store.New()
	st.Append("a.xlsx", []*models.AttendanceRecord{
		{Code: "E001", FinalSalary: 100, ReportName: "Enero"},
	}, nil)
	svc := NewReportService(st)

	groups := svc.ByBank(models.AttendanceFilter{})
	require.Len(t, groups, 1)
	assert.Equal(t, "No especificado", groups[0].Name)
}
