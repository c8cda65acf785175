package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/repository"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

type rosterWriter interface {
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRecord, int, error)
	Upsert(ctx context.Context, rec *models.RosterRecord) error
	Deactivate(ctx context.Context, dni string) error
}

type rosterInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RosterService maintains the people registry. Writes invalidate the
// roster lookup cache so the next import sees fresh data.
type RosterService struct {
	repo   rosterWriter
	lookup repository.RosterLookup
	cache  rosterInvalidator
	logger *zap.Logger
}

// NewRosterService constructs the service. cache may be nil.
func NewRosterService(repo rosterWriter, lookup repository.RosterLookup, cache rosterInvalidator, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, lookup: lookup, cache: cache, logger: logger}
}

// List returns roster records plus pagination info.
func (s *RosterService) List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRecord, models.Pagination, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return records, models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get resolves one roster record by DNI, active or not found.
func (s *RosterService) Get(ctx context.Context, dni string) (*models.RosterRecord, error) {
	rec, err := s.lookup.FindByNationalID(ctx, dni)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("empleado %s no encontrado", dni))
		}
		return nil, err
	}
	return rec, nil
}

// Save validates and upserts a roster record, then drops the lookup cache.
func (s *RosterService) Save(ctx context.Context, rec *models.RosterRecord) error {
	rec.NationalID = strings.TrimSpace(rec.NationalID)
	rec.FullName = strings.TrimSpace(rec.FullName)
	if rec.NationalID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "dni es obligatorio")
	}
	if rec.FullName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "nombre es obligatorio")
	}
	if rec.ContractType != "" && rec.ContractType != models.ContractPayroll && rec.ContractType != models.ContractReceipts {
		return appErrors.Clone(appErrors.ErrValidation, "tipo de contrato invalido")
	}
	if rec.Pension != nil && *rec.Pension != "" {
		plan := models.ParsePensionPlan(string(*rec.Pension))
		rec.Pension = &plan
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("roster record saved", zap.String("dni", rec.NationalID))
	return nil
}

// Deactivate soft-deletes a roster record and drops the lookup cache.
func (s *RosterService) Deactivate(ctx context.Context, dni string) error {
	if err := s.repo.Deactivate(ctx, dni); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("empleado %s no encontrado", dni))
	}
	s.invalidate(ctx)
	s.logger.Info("roster record deactivated", zap.String("dni", dni))
	return nil
}

func (s *RosterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
}
