package dto

// EditDayRequest sets one day code for an employee.
type EditDayRequest struct {
	Value string `json:"valor" binding:"required,daycode"`
}

// EditContractRequest switches the contract type.
type EditContractRequest struct {
	ContractType string `json:"tipo_contrato" binding:"required"`
}

// EditPensionRequest changes the pension plan.
type EditPensionRequest struct {
	Pension string `json:"pension" binding:"required,pensionplan"`
}

// EditBonusRequest sets the manual bonus. Zero clears it, so the field is
// a pointer to distinguish "absent" from "0".
type EditBonusRequest struct {
	Amount *float64 `json:"monto" binding:"required"`
}

// EditResponse reports how many records an edit touched.
type EditResponse struct {
	Code    string `json:"codigo"`
	Updated int    `json:"registros_actualizados"`
}
