package models

// DayCode classifies a single calendar day on an attendance sheet. The
// two-letter values are the exact codes used by the upstream report
// template and must not be altered.
type DayCode string

const (
	DayCodeOnTime       DayCode = "PU" // puntual
	DayCodeLate         DayCode = "TA" // tardanza
	DayCodeAbsent       DayCode = "FA" // falta
	DayCodeNotWorkable  DayCode = "NL" // no laborable
	DayCodeAttended     DayCode = "AS" // asistió, counts as on time
	DayCodeMedicalLeave DayCode = "DM" // descanso médico
	DayCodePermission   DayCode = "PE" // permiso
	DayCodeVacation     DayCode = "VA" // vacaciones
	DayCodeExtraDay     DayCode = "DE" // día extra
	DayCodeJustified    DayCode = "JU" // justificado
)

var dayCodes = map[DayCode]struct{}{
	DayCodeOnTime:       {},
	DayCodeLate:         {},
	DayCodeAbsent:       {},
	DayCodeNotWorkable:  {},
	DayCodeAttended:     {},
	DayCodeMedicalLeave: {},
	DayCodePermission:   {},
	DayCodeVacation:     {},
	DayCodeExtraDay:     {},
	DayCodeJustified:    {},
}

// ParseDayCode normalizes a raw cell value. Unknown or empty values map
// to NL, matching the importer's defaulting behaviour.
func ParseDayCode(raw string) DayCode {
	code := DayCode(raw)
	if _, ok := dayCodes[code]; ok {
		return code
	}
	return DayCodeNotWorkable
}

// CounterCategory identifies which derived counter a day code feeds.
type CounterCategory int

const (
	CounterNone CounterCategory = iota
	CounterOnTime
	CounterLate
	CounterAbsent
	CounterExtraDay
)

// Category maps a day code to the counter it affects. PU and AS both
// count as on time; codes like DM, PE, VA, JU affect no counter.
func (c DayCode) Category() CounterCategory {
	switch c {
	case DayCodeOnTime, DayCodeAttended:
		return CounterOnTime
	case DayCodeLate:
		return CounterLate
	case DayCodeAbsent:
		return CounterAbsent
	case DayCodeExtraDay:
		return CounterExtraDay
	default:
		return CounterNone
	}
}
