package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/parser"
	"github.com/planilla-hr/planilla-api/internal/payroll"
	"github.com/planilla-hr/planilla-api/internal/repository"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
	"github.com/planilla-hr/planilla-api/pkg/jobs"
)

const reportFilePrefix = "ReportePlanillaResumen_"

// attendanceSink is the slice of the store the importer writes to.
type attendanceSink interface {
	Append(file string, records []*models.AttendanceRecord, errs []models.ValidationError)
	Files() []string
	RecordFileError(file, message string)
}

type settingsProvider interface {
	Current(ctx context.Context) (models.Settings, error)
	RaiseDaysInMonth(ctx context.Context, days int) error
}

type importMetrics interface {
	ImportStarted()
	ImportFinished(outcome string, rows, failures int, elapsed time.Duration)
}

// importJobPayload is what travels through the queue for one uploaded file.
type importJobPayload struct {
	FileName string
	Grid     [][]string
}

// ImportService turns uploaded attendance workbooks into validated store
// records. Each file becomes one background job; files are independent
// and their completion order is unspecified.
type ImportService struct {
	roster   repository.RosterLookup
	store    attendanceSink
	settings settingsProvider
	metrics  importMetrics
	logger   *zap.Logger

	queue    *jobs.Queue
	inFlight atomic.Int64
}

// NewImportService constructs the importer and its job queue. Call Start
// before enqueueing files.
func NewImportService(roster repository.RosterLookup, store attendanceSink, settings settingsProvider, metrics importMetrics, cfg jobs.QueueConfig, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ImportService{
		roster:   roster,
		store:    store,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("attendance-imports", s.handleJob, cfg)
	return s
}

// Start launches the import workers.
func (s *ImportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the import workers.
func (s *ImportService) Stop() {
	s.queue.Stop()
}

// Validating reports whether any import job is still running. The flag is
// an in-flight counter, so it stays true until the last of several
// concurrently uploaded files finishes.
func (s *ImportService) Validating() bool {
	return s.inFlight.Load() > 0
}

// Submit parses the workbook into a cell grid and queues it for
// validation. The parse happens inline so a corrupt workbook fails the
// upload synchronously; roster reconciliation runs in the background.
func (s *ImportService) Submit(fileName string, grid [][]string) error {
	if containsFile(s.store.Files(), fileName) {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("el archivo %s ya fue cargado", fileName))
	}

	s.inFlight.Add(1)
	if s.metrics != nil {
		s.metrics.ImportStarted()
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "import_file",
		Payload: importJobPayload{FileName: fileName, Grid: grid},
	})
	if err != nil {
		s.inFlight.Add(-1)
		if s.metrics != nil {
			s.metrics.ImportFinished("rejected", 0, 0, 0)
		}
		return err
	}
	return nil
}

func (s *ImportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(importJobPayload)
	if !ok {
		s.inFlight.Add(-1)
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	defer s.inFlight.Add(-1)

	started := time.Now()
	outcome, rows, failures, err := s.processFile(ctx, payload.FileName, payload.Grid)
	if s.metrics != nil {
		s.metrics.ImportFinished(outcome, rows, failures, time.Since(started))
	}
	if err != nil {
		s.logger.Error("import failed",
			zap.String("file", payload.FileName),
			zap.Error(err))
	}
	// errors are terminal per file, never retried
	return nil
}

func (s *ImportService) processFile(ctx context.Context, fileName string, grid [][]string) (string, int, int, error) {
	sheet, err := parser.ParseSheet(grid)
	if err != nil {
		s.store.RecordFileError(fileName, appErrors.FromError(err).Message)
		return "format_error", 0, 0, err
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		s.store.RecordFileError(fileName, "no se pudo cargar la configuracion de planilla")
		return "error", 0, 0, fmt.Errorf("load settings: %w", err)
	}

	if sheet.DayCount > settings.DaysInMonth {
		if err := s.settings.RaiseDaysInMonth(ctx, sheet.DayCount); err != nil {
			s.logger.Warn("could not raise days in month", zap.Int("days", sheet.DayCount), zap.Error(err))
		}
	}

	reportName := ReportNameFromFile(fileName)
	records := make([]*models.AttendanceRecord, 0, len(sheet.Rows))
	var validationErrs []models.ValidationError

	for _, row := range sheet.Rows {
		roster, err := s.resolveIdentity(ctx, row)
		if err != nil {
			// a failed lookup rejects only its own row, whatever the cause
			msg := fmt.Sprintf("Empleado no registrado: %s (%s)", row.FullName, fileName)
			if !errors.Is(err, sql.ErrNoRows) {
				msg = fmt.Sprintf("Error al conectar con la base de datos: %s (%s)", row.FullName, fileName)
				s.logger.Warn("roster lookup failed",
					zap.String("file", fileName),
					zap.Int("row", row.Index),
					zap.Error(err))
			}
			validationErrs = append(validationErrs, models.ValidationError{
				Key:     validationKey(row),
				Message: msg,
			})
			continue
		}
		records = append(records, s.buildRecord(row, roster, sheet, settings, fileName, reportName))
	}

	s.store.Append(fileName, records, validationErrs)
	s.logger.Info("file imported",
		zap.String("file", fileName),
		zap.String("report", reportName),
		zap.Int("records", len(records)),
		zap.Int("rejected", len(validationErrs)))
	return "ok", len(records), len(validationErrs), nil
}

// resolveIdentity looks the row up by DNI first, then by full name.
func (s *ImportService) resolveIdentity(ctx context.Context, row parser.Row) (*models.RosterRecord, error) {
	if row.NationalID != "" {
		rec, err := s.roster.FindByNationalID(ctx, row.NationalID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	if row.FullName == "" {
		return nil, sql.ErrNoRows
	}
	return s.roster.SearchByName(ctx, row.FullName)
}

// buildRecord snapshots the roster fields onto a new attendance record.
// Roster values win, the sheet cells are the fallback, configured
// defaults the last resort. Only the daily salary is sheet-first since
// the roster carries no daily figure.
func (s *ImportService) buildRecord(row parser.Row, roster *models.RosterRecord, sheet *parser.Sheet, settings models.Settings, fileName, reportName string) *models.AttendanceRecord {
	rec := &models.AttendanceRecord{
		Code:          row.Code,
		FullName:      pick(roster.FullName, row.FullName),
		NationalID:    roster.NationalID,
		Occupation:    pick(roster.Occupation, row.Occupation),
		Site:          pick(roster.Site, settings.DefaultSite),
		Company:       roster.Company,
		BusinessLine:  roster.BusinessLine,
		Bank:          pick(roster.Bank, "No especificado"),
		AccountNumber: roster.AccountNumber,
		SourceFile:    fileName,
		ReportName:    reportName,
		Month:         sheet.Month,
		Days:          make(map[int]models.DayCode, len(row.DayCodes)),
	}
	if roster.HireDate != nil {
		rec.HireDate = *roster.HireDate
	}

	rec.MonthlySalary = roster.Salary
	if rec.MonthlySalary == 0 {
		rec.MonthlySalary = row.MonthlySalary
	}
	rec.DailySalary = row.DailySalary
	if rec.DailySalary == 0 && settings.DaysInMonth > 0 {
		rec.DailySalary = rec.MonthlySalary / float64(settings.DaysInMonth)
	}

	rec.ContractType = roster.ContractType
	if rec.ContractType == "" {
		rec.ContractType = settings.DefaultContractType
	}
	switch {
	case rec.ContractType != models.ContractPayroll:
		rec.Pension = models.PensionNone
	case roster.Pension != nil && *roster.Pension != "":
		rec.Pension = *roster.Pension
	default:
		rec.Pension = settings.DefaultScheme.DefaultPlan()
	}

	for i, code := range row.DayCodes {
		day := i + 1
		rec.Days[day] = code
		switch code.Category() {
		case models.CounterOnTime:
			rec.OnTime++
		case models.CounterLate:
			rec.Late++
		case models.CounterAbsent:
			rec.Absences++
		case models.CounterExtraDay:
			rec.ExtraDays++
		}
	}

	payroll.Apply(rec, settings.LateDiscount)
	return rec
}

// ReportNameFromFile derives the human report label from an upload name:
// the template prefix and the workbook extension are stripped.
func ReportNameFromFile(fileName string) string {
	name := strings.TrimSuffix(fileName, ".xlsx")
	name = strings.TrimSuffix(name, ".xls")
	name = strings.TrimPrefix(name, reportFilePrefix)
	if name == "" {
		return fileName
	}
	return name
}

func validationKey(row parser.Row) string {
	if row.NationalID != "" {
		return row.NationalID
	}
	return fmt.Sprintf("fila-%d", row.Index+1)
}

func pick(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}

func containsFile(files []string, name string) bool {
	for _, f := range files {
		if f == name {
			return true
		}
	}
	return false
}
