package models

// ContractType distinguishes payroll employees (subject to pension
// withholding) from fee-for-service workers paid against receipts.
type ContractType string

const (
	ContractPayroll  ContractType = "planilla"
	ContractReceipts ContractType = "recibos"
)

// ParseContractType defaults unrecognized values to the provided fallback.
func ParseContractType(raw string, fallback ContractType) ContractType {
	switch ContractType(raw) {
	case ContractPayroll:
		return ContractPayroll
	case ContractReceipts:
		return ContractReceipts
	default:
		return fallback
	}
}

// PensionPlan enumerates the supported pension schemes. PensionNone marks
// workers without withholding (always the case for receipts contracts).
type PensionPlan string

const (
	PensionNone         PensionPlan = "ninguno"
	PensionAFPIntegra   PensionPlan = "AFP Integra"
	PensionAFPProfuturo PensionPlan = "AFP Profuturo"
	PensionAFPPrima     PensionPlan = "AFP Prima"
	PensionAFPHabitat   PensionPlan = "AFP Habitat"
	PensionONP          PensionPlan = "ONP"
)

// pensionRates holds the monthly-salary withholding percentage per plan.
var pensionRates = map[PensionPlan]float64{
	PensionAFPProfuturo: 0.0169,
	PensionAFPPrima:     0.0160,
	PensionAFPHabitat:   0.0147,
	PensionAFPIntegra:   0.0155,
	PensionONP:          0.13,
}

// Rate returns the withholding fraction for the plan; unknown plans and
// PensionNone withhold nothing.
func (p PensionPlan) Rate() float64 {
	return pensionRates[p]
}

// ParsePensionPlan normalizes a raw plan string; anything outside the
// closed set becomes PensionNone.
func ParsePensionPlan(raw string) PensionPlan {
	plan := PensionPlan(raw)
	if _, ok := pensionRates[plan]; ok {
		return plan
	}
	return PensionNone
}

// PensionScheme is the configured default family used when a roster record
// carries no plan: AFP resolves to AFP Integra, ONP to ONP.
type PensionScheme string

const (
	SchemeAFP PensionScheme = "AFP"
	SchemeONP PensionScheme = "ONP"
)

// DefaultPlan resolves the scheme to its canonical plan.
func (s PensionScheme) DefaultPlan() PensionPlan {
	if s == SchemeONP {
		return PensionONP
	}
	return PensionAFPIntegra
}
