package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planilla-hr/planilla-api/internal/dto"
	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
	"github.com/planilla-hr/planilla-api/pkg/response"
)

type settingsService interface {
	Current(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, next models.Settings) (models.Settings, error)
}

// SettingsHandler exposes the payroll configuration endpoints.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds the handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the active configuration.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update replaces the configuration.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload invalido"))
		return
	}
	next := models.Settings{
		DaysInMonth:         req.DaysInMonth,
		LateDiscount:        *req.LateDiscount,
		DefaultContractType: models.ContractType(req.DefaultContractType),
		DefaultScheme:       models.PensionScheme(req.DefaultScheme),
		DefaultSite:         req.DefaultSite,
	}
	updated, err := h.service.Update(c.Request.Context(), next)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
