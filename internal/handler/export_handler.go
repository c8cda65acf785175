package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/service"
	"github.com/planilla-hr/planilla-api/pkg/response"
)

type exportService interface {
	Attendance(ctx context.Context, filter models.AttendanceFilter) (*service.ExportFile, error)
	Payroll(ctx context.Context, filter models.AttendanceFilter, format service.ExportFormat) (*service.ExportFile, error)
	Analytics(ctx context.Context, filter models.AttendanceFilter) (*service.ExportFile, error)
	SiteBanks(ctx context.Context, filter models.AttendanceFilter) (*service.ExportFile, error)
}

// ExportHandler streams generated workbooks as attachments.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

func (h *ExportHandler) Attendance(c *gin.Context) {
	file, err := h.service.Attendance(c.Request.Context(), reportFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

func (h *ExportHandler) Payroll(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatXLSX)))
	file, err := h.service.Payroll(c.Request.Context(), reportFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

func (h *ExportHandler) Analytics(c *gin.Context) {
	file, err := h.service.Analytics(c.Request.Context(), reportFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

func (h *ExportHandler) SiteBanks(c *gin.Context) {
	file, err := h.service.SiteBanks(c.Request.Context(), reportFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}
