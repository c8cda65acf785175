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

type attendanceService interface {
	List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int)
	Reports() []string
	ValidationErrors() []models.ValidationError
	DismissValidationError(key string) error
	DismissAllValidationErrors()
	EditDay(ctx context.Context, code string, day int, raw string) (int, error)
	EditContract(ctx context.Context, code string, raw string) (int, error)
	EditPension(ctx context.Context, code string, raw string) (int, error)
	EditBonus(ctx context.Context, code string, amount float64) (int, error)
}

// AttendanceHandler exposes the consolidated view and the record edits.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// List returns the filtered, paginated consolidated view.
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := attendanceFilterFromQuery(c)
	records, total := h.service.List(filter)
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	meta := map[string]interface{}{"reportes": h.service.Reports()}
	response.JSON(c, http.StatusOK, records, pagination, meta)
}

// EditDay rewrites one day code.
func (h *AttendanceHandler) EditDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dia invalido"))
		return
	}
	var req dto.EditDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido"))
		return
	}
	updated, err := h.service.EditDay(c.Request.Context(), c.Param("code"), day, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EditResponse{Code: c.Param("code"), Updated: updated}, nil)
}

// EditContract switches the contract type.
func (h *AttendanceHandler) EditContract(c *gin.Context) {
	var req dto.EditContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido"))
		return
	}
	updated, err := h.service.EditContract(c.Request.Context(), c.Param("code"), req.ContractType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EditResponse{Code: c.Param("code"), Updated: updated}, nil)
}

// EditPension changes the pension plan.
func (h *AttendanceHandler) EditPension(c *gin.Context) {
	var req dto.EditPensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido"))
		return
	}
	updated, err := h.service.EditPension(c.Request.Context(), c.Param("code"), req.Pension)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EditResponse{Code: c.Param("code"), Updated: updated}, nil)
}

// EditBonus sets the manual bonus.
func (h *AttendanceHandler) EditBonus(c *gin.Context) {
	var req dto.EditBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido"))
		return
	}
	updated, err := h.service.EditBonus(c.Request.Context(), c.Param("code"), *req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EditResponse{Code: c.Param("code"), Updated: updated}, nil)
}

// DismissValidationError clears one pending import rejection.
func (h *AttendanceHandler) DismissValidationError(c *gin.Context) {
	if err := h.service.DismissValidationError(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DismissAllValidationErrors clears every pending import rejection.
func (h *AttendanceHandler) DismissAllValidationErrors(c *gin.Context) {
	h.service.DismissAllValidationErrors()
	response.NoContent(c)
}

func attendanceFilterFromQuery(c *gin.Context) models.AttendanceFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return models.AttendanceFilter{
		Search:   c.Query("search"),
		Report:   c.Query("report"),
		Page:     page,
		PageSize: pageSize,
	}
}
