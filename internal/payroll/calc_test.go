package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planilla-hr/planilla-api/internal/models"
)

func baseRecord() *models.AttendanceRecord {
	return &models.AttendanceRecord{
		Code:          "E001",
		MonthlySalary: 3000,
		DailySalary:   100,
		Late:          2,
		Absences:      1,
		ContractType:  models.ContractPayroll,
		Pension:       models.PensionAFPIntegra,
	}
}

func TestComputeIntegraScenario(t *testing.T) {
	rec := baseRecord()
	b := Compute(rec, 5)

	assert.InDelta(t, 110, b.AttendanceDiscount, 1e-9)
	assert.InDelta(t, 46.5, b.PensionDiscount, 1e-9)
	assert.InDelta(t, 2843.5, b.FinalSalary, 1e-9)
}

func TestComputeReceiptsIgnoresPension(t *testing.T) {
	rec := baseRecord()
	rec.ContractType = models.ContractReceipts
	rec.Pension = models.PensionONP

	b := Compute(rec, 5)
	assert.Zero(t, b.PensionDiscount)
	assert.InDelta(t, 2890, b.FinalSalary, 1e-9)
}

func TestComputeIdempotent(t *testing.T) {
	rec := baseRecord()
	first := Compute(rec, 5)
	second := Compute(rec, 5)
	assert.Equal(t, first, second)
}

func TestComputeLateMonotonicity(t *testing.T) {
	rec := baseRecord()
	before := Compute(rec, 5).FinalSalary
	rec.Late++
	after := Compute(rec, 5).FinalSalary
	assert.InDelta(t, 5, before-after, 1e-9)
}

func TestComputeFloorsAtZero(t *testing.T) {
	rec := baseRecord()
	rec.MonthlySalary = 100
	rec.Absences = 30

	b := Compute(rec, 5)
	assert.Zero(t, b.FinalSalary)
}

func TestComputeExtraDaysAndBonus(t *testing.T) {
	rec := baseRecord()
	rec.Late = 0
	rec.Absences = 0
	rec.ExtraDays = 2
	rec.Bonus = 50

	b := Compute(rec, 5)
	assert.InDelta(t, 200, b.ExtraDayValue, 1e-9)
	// 3000 - 46.5 + 200 + 50
	assert.InDelta(t, 3203.5, b.FinalSalary, 1e-9)
}

func TestPensionRates(t *testing.T) {
	cases := map[models.PensionPlan]float64{
		models.PensionAFPProfuturo: 0.0169,
		models.PensionAFPPrima:     0.0160,
		models.PensionAFPHabitat:   0.0147,
		models.PensionAFPIntegra:   0.0155,
		models.PensionONP:          0.13,
		models.PensionNone:         0,
	}
	for plan, rate := range cases {
		assert.Equal(t, rate, plan.Rate(), string(plan))
	}
}

func TestApplyWritesDerivedFields(t *testing.T) {
	rec := baseRecord()
	Apply(rec, 5)
	assert.InDelta(t, 110, rec.Discounts, 1e-9)
	assert.InDelta(t, 2843.5, rec.FinalSalary, 1e-9)
}
