package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planilla-hr/planilla-api/internal/dto"
	"github.com/planilla-hr/planilla-api/internal/models"
	"github.com/planilla-hr/planilla-api/internal/parser"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
	"github.com/planilla-hr/planilla-api/pkg/response"
)

type importService interface {
	Submit(fileName string, grid [][]string) error
	Validating() bool
}

type importStatusSource interface {
	Files() []string
	Reports() []string
	ValidationErrors() []models.ValidationError
	FileErrors() []models.FileError
	RemoveFile(name string) (int, error)
}

// ImportHandler exposes the upload pipeline endpoints.
type ImportHandler struct {
	imports     importService
	attendance  importStatusSource
	maxFileSize int64
}

// NewImportHandler builds the handler.
func NewImportHandler(imports importService, attendance importStatusSource, maxFileSize int64) *ImportHandler {
	return &ImportHandler{imports: imports, attendance: attendance, maxFileSize: maxFileSize}
}

// Upload accepts one or more workbooks under the multipart "files" field
// and queues each for background validation. A workbook that cannot be
// read rejects the whole request; roster failures surface later through
// the status endpoint.
func (h *ImportHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "multipart form requerido"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no se recibieron archivos"))
		return
	}

	queued := make([]string, 0, len(files))
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
			response.Error(c, appErrors.Clone(appErrors.ErrFormat, "solo se aceptan archivos .xlsx/.xls"))
			return
		}
		if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "archivo demasiado grande"))
			return
		}

		src, err := fh.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "no se pudo abrir el archivo"))
			return
		}
		grid, err := parser.ReadWorkbook(src)
		src.Close()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrFormat.Code, http.StatusBadRequest, appErrors.ErrFormat.Message))
			return
		}

		if err := h.imports.Submit(name, grid); err != nil {
			response.Error(c, err)
			return
		}
		queued = append(queued, name)
	}

	response.JSON(c, http.StatusAccepted, dto.ImportQueuedResponse{Queued: queued}, nil)
}

// Status reports the validating flag plus the loaded files, pending
// validation errors and whole-file failures.
func (h *ImportHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.ImportStatusResponse{
		Validating:       h.imports.Validating(),
		Files:            h.attendance.Files(),
		Reports:          h.attendance.Reports(),
		ValidationErrors: h.attendance.ValidationErrors(),
		FileErrors:       h.attendance.FileErrors(),
	}, nil)
}

// RemoveFile unloads one imported file and everything derived from it.
func (h *ImportHandler) RemoveFile(c *gin.Context) {
	name := c.Param("name")
	removed, err := h.attendance.RemoveFile(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.RemoveFileResponse{File: name, RecordsRemoved: removed}, nil)
}
