package models

import "time"

// Settings is the process-wide payroll configuration. It is persisted as a
// single keyed blob and reloaded at startup; DaysInMonth is only ever
// raised by imports, never lowered.
type Settings struct {
	DaysInMonth         int           `json:"dias_del_mes"`
	LateDiscount        float64       `json:"descuento_tardanza"`
	DefaultContractType ContractType  `json:"default_tipo_contrato"`
	DefaultScheme       PensionScheme `json:"default_pension"`
	DefaultSite         string        `json:"default_sede"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// DefaultSettings mirrors the values the front end shipped with.
func DefaultSettings() Settings {
	return Settings{
		DaysInMonth:         28,
		LateDiscount:        5,
		DefaultContractType: ContractReceipts,
		DefaultScheme:       SchemeAFP,
		DefaultSite:         "Lima",
	}
}
