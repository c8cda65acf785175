package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/pkg/response"
)

type reportService interface {
	ByBusinessLine(filter models.AttendanceFilter) []models.GroupSummary
	ByBank(filter models.AttendanceFilter) []models.GroupSummary
	BySite(filter models.AttendanceFilter) []models.GroupSummary
	BySource(filter models.AttendanceFilter) []models.ReportTotal
	SiteBankShares(filter models.AttendanceFilter) []models.SiteBankSummary
}

// ReportHandler exposes the aggregated payroll views.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) BusinessLines(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ByBusinessLine(reportFilterFromQuery(c)), nil)
}

func (h *ReportHandler) Banks(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ByBank(reportFilterFromQuery(c)), nil)
}

func (h *ReportHandler) Sites(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.BySite(reportFilterFromQuery(c)), nil)
}

func (h *ReportHandler) Sources(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.BySource(reportFilterFromQuery(c)), nil)
}

func (h *ReportHandler) SiteBanks(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.SiteBankShares(reportFilterFromQuery(c)), nil)
}

// reportFilterFromQuery mirrors the consolidated view filter without
// pagination: aggregations always cover the full filtered set.
func reportFilterFromQuery(c *gin.Context) models.AttendanceFilter {
	return models.AttendanceFilter{
		Search: c.Query("search"),
		Report: c.Query("report"),
	}
}
