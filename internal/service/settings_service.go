package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

type settingsStore interface {
	Load(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

// SettingsService keeps the payroll configuration in memory and persists
// changes through the repository. Imports read it on every file, so the
// current value is cached behind a mutex instead of hitting the database.
type SettingsService struct {
	repo   settingsStore
	logger *zap.Logger

	mu      sync.RWMutex
	current models.Settings
	loaded  bool
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Current returns the active settings, loading them on first use.
func (s *SettingsService) Current(ctx context.Context) (models.Settings, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current, nil
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	s.current = *loaded
	s.loaded = true
	return s.current, nil
}

// Update validates and persists new settings.
func (s *SettingsService) Update(ctx context.Context, next models.Settings) (models.Settings, error) {
	if next.DaysInMonth < 28 || next.DaysInMonth > 31 {
		return models.Settings{}, appErrors.Clone(appErrors.ErrValidation, "dias del mes debe estar entre 28 y 31")
	}
	if next.LateDiscount < 0 {
		return models.Settings{}, appErrors.Clone(appErrors.ErrValidation, "descuento por tardanza no puede ser negativo")
	}
	if next.DefaultContractType != models.ContractPayroll && next.DefaultContractType != models.ContractReceipts {
		return models.Settings{}, appErrors.Clone(appErrors.ErrValidation, "tipo de contrato invalido")
	}
	if next.DefaultScheme != models.SchemeAFP && next.DefaultScheme != models.SchemeONP {
		return models.Settings{}, appErrors.Clone(appErrors.ErrValidation, "esquema de pension invalido")
	}
	if next.DefaultSite == "" {
		next.DefaultSite = models.DefaultSettings().DefaultSite
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Save(ctx, &next); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.current = next
	s.loaded = true
	s.logger.Info("settings updated",
		zap.Int("days_in_month", next.DaysInMonth),
		zap.Float64("late_discount", next.LateDiscount))
	return s.current, nil
}

// RaiseDaysInMonth lifts the configured day count when an imported sheet
// carries more day columns. The value never shrinks from imports.
func (s *SettingsService) RaiseDaysInMonth(ctx context.Context, days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		loaded, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		s.current = *loaded
		s.loaded = true
	}
	if days <= s.current.DaysInMonth {
		return nil
	}
	next := s.current
	next.DaysInMonth = days
	if err := s.repo.Save(ctx, &next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.current = next
	s.logger.Info("days in month raised", zap.Int("days", days))
	return nil
}
