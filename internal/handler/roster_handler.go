package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/planilla-hr/planilla-api/internal/dto"
	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
	"github.com/planilla-hr/planilla-api/pkg/response"
)

type rosterService interface {
	List(ctx context.Context, filter models.RosterFilter) ([]models.RosterRecord, models.Pagination, error)
	Get(ctx context.Context, dni string) (*models.RosterRecord, error)
	Save(ctx context.Context, rec *models.RosterRecord) error
	Deactivate(ctx context.Context, dni string) error
}

// RosterHandler exposes the people registry endpoints.
type RosterHandler struct {
	service rosterService
}

// NewRosterHandler builds the handler.
func NewRosterHandler(service rosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

// List returns filtered roster records.
func (h *RosterHandler) List(c *gin.Context) {
	filter := models.RosterFilter{
		Search:       c.Query("search"),
		BusinessLine: c.Query("rubro"),
		Company:      c.Query("empresa"),
		Site:         c.Query("sede"),
		ContractType: c.Query("tipocontrato"),
	}
	if raw := c.Query("activo"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, &pagination)
}

// Get returns one roster record by DNI.
func (h *RosterHandler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("dni"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Create registers a new roster record.
func (h *RosterHandler) Create(c *gin.Context) {
	rec, err := bindRosterRecord(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rec.Active = true
	if err := h.service.Save(c.Request.Context(), rec); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// Update upserts an existing roster record; the path DNI wins.
func (h *RosterHandler) Update(c *gin.Context) {
	rec, err := bindRosterRecord(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rec.NationalID = c.Param("dni")
	rec.Active = true
	if err := h.service.Save(c.Request.Context(), rec); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Deactivate soft-deletes a roster record.
func (h *RosterHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("dni")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func bindRosterRecord(c *gin.Context) (*models.RosterRecord, error) {
	var req dto.SaveRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido")
	}
	rec := &models.RosterRecord{
		NationalID:    req.NationalID,
		FullName:      req.FullName,
		Occupation:    req.Occupation,
		Salary:        req.Salary,
		Site:          req.Site,
		Company:       req.Company,
		BusinessLine:  req.BusinessLine,
		Bank:          req.Bank,
		ContractType:  models.ContractType(req.ContractType),
		AccountNumber: req.AccountNumber,
	}
	if req.Pension != "" {
		plan := models.PensionPlan(req.Pension)
		rec.Pension = &plan
	}
	if req.HireDate != "" {
		hire := req.HireDate
		rec.HireDate = &hire
	}
	return rec, nil
}
