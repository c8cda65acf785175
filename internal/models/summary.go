package models

// GroupSummary aggregates the filtered record set along one dimension
// (business line, bank, site or source report).
type GroupSummary struct {
	Name           string  `json:"nombre"`
	EmployeeCount  int     `json:"cantidad_empleados"`
	TotalSalaries  float64 `json:"total_sueldos"`
	TotalDiscounts float64 `json:"total_descuentos"`
	TotalBonuses   float64 `json:"total_bonos"`
	TotalFinal     float64 `json:"total_final"`
}

// BankShare is one bank's slice of a site's final-salary total.
type BankShare struct {
	Bank       string  `json:"banco"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"porcentaje"`
}

// SiteBankSummary is the two-level site × bank aggregation.
type SiteBankSummary struct {
	Site  string      `json:"sede"`
	Banks []BankShare `json:"bancos"`
}

// ReportTotal summarises one source report for the dashboard.
type ReportTotal struct {
	Name          string  `json:"name"`
	EmployeeCount int     `json:"empleados"`
	TotalFinal    float64 `json:"value"`
}
