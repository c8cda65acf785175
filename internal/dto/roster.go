package dto

// SaveRosterRequest creates or updates one roster record, keyed by DNI.
type SaveRosterRequest struct {
	NationalID    string  `json:"dni" binding:"required"`
	FullName      string  `json:"nombre" binding:"required"`
	Occupation    string  `json:"ocupacion"`
	Salary        float64 `json:"salario" binding:"gte=0"`
	Site          string  `json:"sede"`
	Company       string  `json:"empresa"`
	BusinessLine  string  `json:"rubro"`
	Bank          string  `json:"banco"`
	ContractType  string  `json:"tipocontrato"`
	Pension       string  `json:"pension"`
	HireDate      string  `json:"fechaingreso"`
	AccountNumber string  `json:"numerocuenta"`
}
