// Package payroll holds the pure salary computation. Everything here is a
// deterministic function of its inputs: no clocks, no state, no IO.
package payroll

import "github.com/planilla-hr/planilla-api/internal/models"

// Breakdown is the result of one salary computation.
type Breakdown struct {
	FinalSalary        float64 `json:"sueldo_final"`
	AttendanceDiscount float64 `json:"descuentos_asistencia"`
	PensionDiscount    float64 `json:"descuento_pension"`
	ExtraDayValue      float64 `json:"dias_extras_valor"`
	Bonus              float64 `json:"bono_extra"`
}

// Compute derives the payroll figures for one attendance record.
//
// Attendance discount is lateCount*lateDiscount plus one daily salary per
// absence. Pension withholding applies only to payroll contracts, as a
// fixed percentage of the monthly salary keyed by plan. The final salary
// is floored at zero.
func Compute(rec *models.AttendanceRecord, lateDiscount float64) Breakdown {
	attendance := float64(rec.Late)*lateDiscount + float64(rec.Absences)*rec.DailySalary

	var pension float64
	if rec.ContractType == models.ContractPayroll {
		pension = rec.MonthlySalary * rec.Pension.Rate()
	}

	extra := float64(rec.ExtraDays) * rec.DailySalary

	final := rec.MonthlySalary - attendance - pension + extra + rec.Bonus
	if final < 0 {
		final = 0
	}

	return Breakdown{
		FinalSalary:        final,
		AttendanceDiscount: attendance,
		PensionDiscount:    pension,
		ExtraDayValue:      extra,
		Bonus:              rec.Bonus,
	}
}

// Apply recomputes and writes the derived fields back onto the record.
func Apply(rec *models.AttendanceRecord, lateDiscount float64) Breakdown {
	b := Compute(rec, lateDiscount)
	rec.Discounts = b.AttendanceDiscount
	rec.FinalSalary = b.FinalSalary
	return b
}
