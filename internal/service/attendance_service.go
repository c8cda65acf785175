package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/store"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

// AttendanceService exposes the consolidated record view and the manual
// edits applied on top of imported data. Every edit keys on the employee
// code and touches all records sharing it, whatever file they came from.
type AttendanceService struct {
	store    *store.Store
	settings settingsProvider
	logger   *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(st *store.Store, settings settingsProvider, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: st, settings: settings, logger: logger}
}

// List returns the filtered consolidated view.
func (s *AttendanceService) List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int) {
	return s.store.List(filter)
}

// Reports returns the distinct loaded report names.
func (s *AttendanceService) Reports() []string {
	return s.store.Reports()
}

// Files returns the loaded source file names.
func (s *AttendanceService) Files() []string {
	return s.store.Files()
}

// ValidationErrors returns the pending import rejections.
func (s *AttendanceService) ValidationErrors() []models.ValidationError {
	return s.store.ValidationErrors()
}

// FileErrors returns the whole-file import failures.
func (s *AttendanceService) FileErrors() []models.FileError {
	return s.store.FileErrors()
}

// DismissValidationError removes one rejection.
func (s *AttendanceService) DismissValidationError(key string) error {
	return s.store.ClearValidationError(key)
}

// DismissAllValidationErrors removes every rejection.
func (s *AttendanceService) DismissAllValidationErrors() {
	s.store.ClearValidationErrors()
}

// EditDay rewrites one day code for an employee.
func (s *AttendanceService) EditDay(ctx context.Context, code string, day int, raw string) (int, error) {
	if day < 1 || day > 31 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dia %d fuera de rango", day))
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return 0, err
	}
	if day > settings.DaysInMonth {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dia %d fuera de rango", day))
	}
	updated, err := s.store.EditDay(code, day, models.ParseDayCode(raw), settings.LateDiscount)
	if err != nil {
		return 0, err
	}
	s.logger.Info("day code edited",
		zap.String("code", code),
		zap.Int("day", day),
		zap.String("value", raw),
		zap.Int("records", updated))
	return updated, nil
}

// EditContract switches an employee's contract type.
func (s *AttendanceService) EditContract(ctx context.Context, code string, raw string) (int, error) {
	contract := models.ContractType(raw)
	if contract != models.ContractPayroll && contract != models.ContractReceipts {
		return 0, appErrors.Clone(appErrors.ErrValidation, "tipo de contrato invalido")
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.store.EditContract(code, contract, settings.DefaultScheme.DefaultPlan(), settings.LateDiscount)
}

// EditPension updates an employee's pension plan. Receipts contracts are
// unaffected.
func (s *AttendanceService) EditPension(ctx context.Context, code string, raw string) (int, error) {
	plan := models.ParsePensionPlan(raw)
	if plan == models.PensionNone && raw != string(models.PensionNone) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "plan de pension invalido")
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.store.EditPension(code, plan, settings.LateDiscount)
}

// EditBonus sets an employee's manual bonus.
func (s *AttendanceService) EditBonus(ctx context.Context, code string, amount float64) (int, error) {
	if amount < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "el bono no puede ser negativo")
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.store.EditBonus(code, amount, settings.LateDiscount)
}

// RemoveFile unloads a source file and everything derived from it.
func (s *AttendanceService) RemoveFile(name string) (int, error) {
	removed, err := s.store.RemoveFile(name)
	if err != nil {
		return 0, err
	}
	s.logger.Info("file removed", zap.String("file", name), zap.Int("records", removed))
	return removed, nil
}
