package models

import "time"

// RosterRecord is one registered employee in the people registry. Imports
// snapshot these fields onto attendance records; later roster edits do not
// retroactively change already imported batches.
type RosterRecord struct {
	NationalID    string       `db:"dni" json:"dni"`
	FullName      string       `db:"nombre" json:"nombre"`
	Occupation    string       `db:"ocupacion" json:"ocupacion"`
	Salary        float64      `db:"salario" json:"salario"`
	Site          string       `db:"sede" json:"sede"`
	Company       string       `db:"empresa" json:"empresa"`
	BusinessLine  string       `db:"rubro" json:"rubro"`
	Bank          string       `db:"banco" json:"banco"`
	ContractType  ContractType `db:"tipocontrato" json:"tipocontrato"`
	Pension       *PensionPlan `db:"pension" json:"pension,omitempty"`
	HireDate      *string      `db:"fechaingreso" json:"fechaingreso,omitempty"`
	AccountNumber string       `db:"numerocuenta" json:"numerocuenta"`
	Active        bool         `db:"activo" json:"activo"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// RosterFilter narrows roster listings.
type RosterFilter struct {
	Search       string
	Active       *bool
	BusinessLine string
	Company      string
	Site         string
	ContractType string
	Page         int
	PageSize     int
}

// Pagination describes list envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
