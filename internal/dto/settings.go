package dto

// UpdateSettingsRequest replaces the payroll configuration.
type UpdateSettingsRequest struct {
	DaysInMonth         int      `json:"dias_del_mes" binding:"required"`
	LateDiscount        *float64 `json:"descuento_tardanza" binding:"required"`
	DefaultContractType string   `json:"default_tipo_contrato" binding:"required"`
	DefaultScheme       string   `json:"default_pension" binding:"required"`
	DefaultSite         string   `json:"default_sede"`
}
