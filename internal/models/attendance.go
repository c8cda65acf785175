package models

// AttendanceRecord is one employee's attendance-and-payroll data for one
// imported file. Records are keyed (Code, SourceFile): the same employee
// code may appear in several imported files and each copy is independent.
type AttendanceRecord struct {
	Code       string `json:"codigo"`
	FullName   string `json:"nombre"`
	NationalID string `json:"dni"`
	Occupation string `json:"cargo"`

	MonthlySalary float64 `json:"sueldo_mensual"`
	DailySalary   float64 `json:"sueldo_diario"`

	Days map[int]DayCode `json:"dias"`

	OnTime    int `json:"puntuales"`
	Late      int `json:"tardanzas"`
	Absences  int `json:"faltas"`
	ExtraDays int `json:"dias_extras"`

	Discounts   float64 `json:"descuentos"`
	Bonus       float64 `json:"bono_extra"`
	FinalSalary float64 `json:"sueldo_final"`

	ContractType ContractType `json:"tipo_contrato"`
	Pension      PensionPlan  `json:"pension"`

	Site          string `json:"sede"`
	Company       string `json:"empresa"`
	BusinessLine  string `json:"rubro"`
	Bank          string `json:"banco"`
	HireDate      string `json:"fecha_inicio"`
	AccountNumber string `json:"numero_cuenta"`

	SourceFile string `json:"archivo_origen"`
	ReportName string `json:"nombre_reporte"`
	Month      string `json:"mes"`
}

// Key identifies a record within the store.
type RecordKey struct {
	Code       string
	SourceFile string
}

// Key returns the record's composite identity.
func (r *AttendanceRecord) Key() RecordKey {
	return RecordKey{Code: r.Code, SourceFile: r.SourceFile}
}

// ApplyDayCode rewrites one day's code and keeps the derived counters in
// step: the old code's counter is decremented and the new one incremented.
// Payroll figures are NOT recomputed here; callers re-run the calculator.
func (r *AttendanceRecord) ApplyDayCode(day int, code DayCode) {
	old := r.Days[day]
	if old == code {
		return
	}
	r.bumpCounter(old.Category(), -1)
	r.bumpCounter(code.Category(), 1)
	if r.Days == nil {
		r.Days = make(map[int]DayCode)
	}
	r.Days[day] = code
}

func (r *AttendanceRecord) bumpCounter(cat CounterCategory, delta int) {
	switch cat {
	case CounterOnTime:
		r.OnTime += delta
	case CounterLate:
		r.Late += delta
	case CounterAbsent:
		r.Absences += delta
	case CounterExtraDay:
		r.ExtraDays += delta
	}
}

// ValidationError is one rejected import row, keyed by national ID (or a
// row-position fallback when the sheet had no DNI cell).
type ValidationError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// FileError is a whole-file import failure (malformed sheet, unreadable
// configuration). Unlike a row rejection the file produced no records.
type FileError struct {
	File    string `json:"archivo"`
	Message string `json:"mensaje"`
}

// AttendanceFilter narrows store listings the way the consolidated view
// does: free text across identity fields plus an optional report filter.
type AttendanceFilter struct {
	Search   string
	Report   string
	Page     int
	PageSize int
}
